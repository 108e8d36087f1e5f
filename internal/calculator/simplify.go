package calculator

import (
	"container/heap"
	"fmt"

	"github.com/shopspring/decimal"
)

// Options tunes a Simplifier.
type Options struct {
	// Precision is the number of decimal places settlement amounts carry.
	Precision int32
	// Epsilon is the largest magnitude still treated as a zero balance.
	Epsilon decimal.Decimal
	// MaxParticipants caps the number of non-zero balances; 0 disables the cap.
	MaxParticipants int
}

// DefaultOptions returns two-place precision, a 1e-9 epsilon and a cap of
// DefaultMaxParticipants users.
func DefaultOptions() Options {
	return Options{
		Precision:       DefaultPrecision,
		Epsilon:         DefaultEpsilon,
		MaxParticipants: DefaultMaxParticipants,
	}
}

// Simplifier turns net balances into a short list of settlement transfers.
// It holds no mutable state and is safe for concurrent use.
type Simplifier struct {
	opts Options
}

// NewSimplifier creates a Simplifier with the given options.
func NewSimplifier(opts Options) *Simplifier {
	if opts.Epsilon.IsNegative() {
		opts.Epsilon = opts.Epsilon.Neg()
	}
	return &Simplifier{opts: opts}
}

// Precision reports the currency precision settlements are rounded to.
func (s *Simplifier) Precision() int32 {
	return s.opts.Precision
}

// SimplifyDebts runs Simplify with DefaultOptions.
func SimplifyDebts(net NetBalances) ([]Settlement, error) {
	return NewSimplifier(DefaultOptions()).Simplify(net)
}

// CalculateDebts runs the whole pipeline with DefaultOptions.
func CalculateDebts(splits []ExpenseSplit, payments []Payment) (NetBalances, []Settlement, error) {
	return NewSimplifier(DefaultOptions()).CalculateDebts(splits, payments)
}

// CalculateDebts aggregates one ledger snapshot and simplifies the result.
// It returns the net balances alongside the settlement plan.
func (s *Simplifier) CalculateDebts(splits []ExpenseSplit, payments []Payment) (NetBalances, []Settlement, error) {
	net, err := NetBalancesOf(splits, payments)
	if err != nil {
		return nil, nil, err
	}
	settlements, err := s.Simplify(net)
	if err != nil {
		return nil, nil, err
	}
	return net, settlements, nil
}

// Simplify matches debtors with creditors greedily, largest first.
//
// Algorithm:
//   - Split users into debtors (positive) and creditors (negative)
//   - Take the largest debtor and the largest creditor; equal amounts go to
//     the lowest user id
//   - Transfer min(debtor, |creditor|) and drop whoever reaches zero
//   - Stop when either side is empty; both must empty together
//
// Each round zeroes at least one party, so at most users-1 settlements are
// emitted. This is a heuristic and not guaranteed to minimise the count.
//
// Each transfer is rounded to the configured precision on its own. The
// rounding errors are summed and the total is added to the last settlement
// only, so no other pair pays for someone else's rounding. net is not
// modified.
func (s *Simplifier) Simplify(net NetBalances) ([]Settlement, error) {
	eps := s.opts.Epsilon

	debtors := &balanceHeap{}
	creditors := &balanceHeap{}
	for user, v := range net {
		if err := validateParty("user", user); err != nil {
			return nil, err
		}
		switch {
		case v.GreaterThan(eps):
			*debtors = append(*debtors, balance{user: user, remaining: v})
		case v.LessThan(eps.Neg()):
			*creditors = append(*creditors, balance{user: user, remaining: v.Neg()})
		}
	}

	if limit := s.opts.MaxParticipants; limit > 0 && debtors.Len()+creditors.Len() > limit {
		return nil, fmt.Errorf("%w: %d users with open balances, limit is %d",
			ErrTooManyParticipants, debtors.Len()+creditors.Len(), limit)
	}
	if err := checkConservation(net, eps); err != nil {
		return nil, err
	}

	heap.Init(debtors)
	heap.Init(creditors)

	var settlements []Settlement
	residue := decimal.Zero
	for debtors.Len() > 0 && creditors.Len() > 0 {
		debtor := heap.Pop(debtors).(balance)
		creditor := heap.Pop(creditors).(balance)

		amount := decimal.Min(debtor.remaining, creditor.remaining)

		// Nothing payable at this precision rounds to zero and is skipped;
		// its whole amount lands in the residue.
		rounded := amount.Round(s.opts.Precision)
		residue = residue.Add(amount.Sub(rounded))
		if rounded.IsPositive() {
			settlements = append(settlements, Settlement{
				FromUserID: debtor.user,
				ToUserID:   creditor.user,
				Amount:     rounded,
			})
		}

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)
		if debtor.remaining.GreaterThan(eps) {
			heap.Push(debtors, debtor)
		}
		if creditor.remaining.GreaterThan(eps) {
			heap.Push(creditors, creditor)
		}
	}

	if debtors.Len() > 0 || creditors.Len() > 0 {
		return nil, fmt.Errorf("%w: %d debtors and %d creditors left unmatched",
			ErrConservationViolation, debtors.Len(), creditors.Len())
	}

	return settleResidue(settlements, residue.Round(s.opts.Precision)), nil
}

// settleResidue folds the accumulated rounding error into the last
// settlement. A settlement the residue takes to zero or below is dropped and
// what is left of the residue moves on to the one before it.
func settleResidue(settlements []Settlement, residue decimal.Decimal) []Settlement {
	for !residue.IsZero() && len(settlements) > 0 {
		last := &settlements[len(settlements)-1]
		adjusted := last.Amount.Add(residue)
		if adjusted.IsPositive() {
			last.Amount = adjusted
			break
		}
		residue = adjusted
		settlements = settlements[:len(settlements)-1]
	}
	return settlements
}

type balance struct {
	user      string
	remaining decimal.Decimal
}

// balanceHeap is a max-heap on remaining; ties pop the lowest user id first.
type balanceHeap []balance

func (h balanceHeap) Len() int { return len(h) }

func (h balanceHeap) Less(i, j int) bool {
	if c := h[i].remaining.Cmp(h[j].remaining); c != 0 {
		return c > 0
	}
	return h[i].user < h[j].user
}

func (h balanceHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *balanceHeap) Push(x any) { *h = append(*h, x.(balance)) }

func (h *balanceHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
