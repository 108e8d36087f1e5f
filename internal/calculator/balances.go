package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Aggregate folds expense splits and payments into pairwise balances.
//
// Algorithm:
//   - For each split where debtor != payer: pair(debtor, payer) += share
//   - For each payment: pair(from, to) -= amount, even if that drives the
//     pair negative (an overpayment or a payment with no matching expense)
//   - Pairs that end at zero are dropped
//
// Any negative amount or empty user id rejects the whole computation.
// Neither input slice is modified.
func Aggregate(splits []ExpenseSplit, payments []Payment) (PairwiseBalances, error) {
	pairs := make(PairwiseBalances)

	for i, s := range splits {
		if err := validateSplit(s); err != nil {
			return nil, fmt.Errorf("split %d (expense %q): %w", i, s.ExpenseID, err)
		}
		// The payer's own share is not a debt.
		if s.DebtorID == s.PayerID {
			continue
		}
		key := Pair{Debtor: s.DebtorID, Creditor: s.PayerID}
		pairs[key] = pairs[key].Add(s.Share)
	}

	for i, p := range payments {
		if err := validatePayment(p); err != nil {
			return nil, fmt.Errorf("payment %d: %w", i, err)
		}
		// A transfer to oneself moves no money.
		if p.FromUserID == p.ToUserID {
			continue
		}
		key := Pair{Debtor: p.FromUserID, Creditor: p.ToUserID}
		pairs[key] = pairs[key].Sub(p.Amount)
	}

	for key, v := range pairs {
		if v.IsZero() {
			delete(pairs, key)
		}
	}

	return pairs, nil
}

// Net collapses pairwise balances into one position per user. For a pair
// with value v the debtor gets +v and the creditor -v, so a reversed
// (negative) pair moves money the other way. Users netting to zero are
// omitted.
func (p PairwiseBalances) Net() NetBalances {
	net := make(NetBalances)
	for pair, v := range p {
		net[pair.Debtor] = net[pair.Debtor].Add(v)
		net[pair.Creditor] = net[pair.Creditor].Sub(v)
	}
	for user, v := range net {
		if v.IsZero() {
			delete(net, user)
		}
	}
	return net
}

// NetBalancesOf aggregates splits and payments and collapses them into net
// balances, verifying that the result conserves money.
func NetBalancesOf(splits []ExpenseSplit, payments []Payment) (NetBalances, error) {
	pairs, err := Aggregate(splits, payments)
	if err != nil {
		return nil, err
	}
	net := pairs.Net()
	if err := checkConservation(net, DefaultEpsilon); err != nil {
		return nil, err
	}
	return net, nil
}

func checkConservation(net NetBalances, tolerance decimal.Decimal) error {
	if sum := net.Sum(); sum.Abs().GreaterThan(tolerance) {
		return fmt.Errorf("%w: net balances sum to %s", ErrConservationViolation, sum)
	}
	return nil
}

func validateSplit(s ExpenseSplit) error {
	if err := validateParty("debtor", s.DebtorID); err != nil {
		return err
	}
	if err := validateParty("payer", s.PayerID); err != nil {
		return err
	}
	return validateAmount("share", s.Share)
}

func validatePayment(p Payment) error {
	if err := validateParty("sender", p.FromUserID); err != nil {
		return err
	}
	if err := validateParty("receiver", p.ToUserID); err != nil {
		return err
	}
	return validateAmount("payment", p.Amount)
}
