package calculator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidInput is returned for negative or non-finite amounts and for
	// records whose user identifiers cannot be resolved.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConservationViolation means the balances handed to the matcher do not
	// net to zero. It always points at a bug upstream and is never corrected.
	ErrConservationViolation = errors.New("conservation violation")

	// ErrTooManyParticipants is returned when a ledger has more users with a
	// non-zero balance than the simplifier is configured to handle.
	ErrTooManyParticipants = errors.New("too many participants")
)

const (
	// DefaultPrecision is the number of decimal places settlements are rounded to.
	DefaultPrecision int32 = 2

	// DefaultMaxParticipants caps the users with open balances Simplify accepts.
	DefaultMaxParticipants = 5000
)

// DefaultEpsilon is the magnitude at or below which a balance counts as settled.
var DefaultEpsilon = decimal.New(1, -9)

// ExpenseSplit is the part of one expense that DebtorID owes to PayerID.
type ExpenseSplit struct {
	ExpenseID string
	DebtorID  string
	PayerID   string
	Share     decimal.Decimal
}

// Payment is a direct transfer that already happened between two users.
type Payment struct {
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
}

// Settlement instructs FromUserID to pay ToUserID the given amount.
type Settlement struct {
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
}

// Pair is an ordered (debtor, creditor) key.
type Pair struct {
	Debtor   string
	Creditor string
}

// PairwiseBalances maps a debtor/creditor pair to what the debtor still owes.
// A negative value means the flow has reversed.
type PairwiseBalances map[Pair]decimal.Decimal

// NetBalances maps a user to a single signed position.
// Positive = must pay, negative = must receive.
type NetBalances map[string]decimal.Decimal

// Sum returns the total of all balances. It is zero for any consistent ledger.
func (n NetBalances) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range n {
		sum = sum.Add(v)
	}
	return sum
}

// Users returns the users present in n in ascending order.
func (n NetBalances) Users() []string {
	users := make([]string, 0, len(n))
	for u := range n {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// Apply returns the balances left after every settlement has been paid.
// n is not modified. Users that end at exactly zero are omitted.
func Apply(n NetBalances, settlements []Settlement) NetBalances {
	out := make(NetBalances, len(n))
	for u, v := range n {
		out[u] = v
	}
	for _, s := range settlements {
		out[s.FromUserID] = out[s.FromUserID].Sub(s.Amount)
		out[s.ToUserID] = out[s.ToUserID].Add(s.Amount)
	}
	for u, v := range out {
		if v.IsZero() {
			delete(out, u)
		}
	}
	return out
}

func validateParty(role, id string) error {
	if id == "" {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, role)
	}
	return nil
}

func validateAmount(role string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative %s %s", ErrInvalidInput, role, amount)
	}
	return nil
}
