package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// PersonSplit represents the calculated split for one person
type PersonSplit struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Item represents a single item on a receipt
type Item struct {
	Description  string
	Amount       decimal.Decimal
	Participants []string
}

// SplitEqually divides amount into equal shares at the given precision.
// Leftover smallest units go one each to the first participants in order,
// so the shares always sum to amount exactly.
func SplitEqually(amount decimal.Decimal, participants []string, precision int32) (map[string]decimal.Decimal, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", ErrInvalidInput)
	}
	if err := validateAmount("amount", amount); err != nil {
		return nil, err
	}
	if !amount.Equal(amount.Round(precision)) {
		return nil, fmt.Errorf("%w: amount %s has more than %d decimal places", ErrInvalidInput, amount, precision)
	}
	if err := checkUnique(participants); err != nil {
		return nil, err
	}

	n := decimal.NewFromInt(int64(len(participants)))
	units := amount.Shift(precision)
	base := units.Div(n).Floor()
	leftover := units.Sub(base.Mul(n)).IntPart()
	unit := decimal.New(1, -precision)

	shares := make(map[string]decimal.Decimal, len(participants))
	for i, p := range participants {
		share := base.Shift(-precision)
		if int64(i) < leftover {
			share = share.Add(unit)
		}
		shares[p] = share
	}
	return shares, nil
}

// CalculateSplit computes how much each person owes including proportional tax
// Based on the algorithm: person_total = person_subtotal × (1 + (total_tax / bill_subtotal))
//
// Totals are rounded to precision; the rounding remainder goes to the first
// participant so that the totals add up.
func CalculateSplit(items []Item, billTotal, billSubtotal decimal.Decimal, participants []string, precision int32) (map[string]*PersonSplit, error) {
	if billSubtotal.IsZero() {
		return nil, fmt.Errorf("%w: subtotal cannot be zero", ErrInvalidInput)
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: must have at least one participant", ErrInvalidInput)
	}
	if err := validateAmount("total", billTotal); err != nil {
		return nil, err
	}
	if err := validateAmount("subtotal", billSubtotal); err != nil {
		return nil, err
	}
	if billTotal.IsZero() {
		return nil, fmt.Errorf("%w: total cannot be zero", ErrInvalidInput)
	}
	if err := checkUnique(participants); err != nil {
		return nil, err
	}

	tax := billTotal.Sub(billSubtotal)
	splits := make(map[string]*PersonSplit, len(participants))

	// If no items, split total equally among all participants
	if len(items) == 0 {
		totals, err := SplitEqually(billTotal.Round(precision), participants, precision)
		if err != nil {
			return nil, err
		}
		rate := billSubtotal.Div(billTotal)
		for _, p := range participants {
			subtotal := totals[p].Mul(rate).Round(precision)
			splits[p] = &PersonSplit{
				Subtotal: subtotal,
				Tax:      totals[p].Sub(subtotal),
				Total:    totals[p],
			}
		}
		return splits, nil
	}

	for _, p := range participants {
		splits[p] = &PersonSplit{}
	}

	// Calculate each person's subtotal based on assigned items
	for _, item := range items {
		if err := validateAmount("item amount", item.Amount); err != nil {
			return nil, fmt.Errorf("item %q: %w", item.Description, err)
		}
		if len(item.Participants) == 0 {
			continue
		}

		perPerson := item.Amount.Div(decimal.NewFromInt(int64(len(item.Participants))))
		for _, person := range item.Participants {
			if split, exists := splits[person]; exists {
				split.Subtotal = split.Subtotal.Add(perPerson)
			}
		}
	}

	// Apply proportional tax and calculate total
	rate := tax.Div(billSubtotal)
	exactSum := decimal.Zero
	roundedSum := decimal.Zero
	for _, p := range participants {
		split := splits[p]
		split.Tax = split.Subtotal.Mul(rate)
		split.Total = split.Subtotal.Add(split.Tax)
		exactSum = exactSum.Add(split.Total)

		split.Subtotal = split.Subtotal.Round(precision)
		split.Tax = split.Tax.Round(precision)
		split.Total = split.Total.Round(precision)
		roundedSum = roundedSum.Add(split.Total)
	}

	if diff := exactSum.Round(precision).Sub(roundedSum); !diff.IsZero() {
		first := splits[participants[0]]
		first.Total = first.Total.Add(diff)
		first.Tax = first.Total.Sub(first.Subtotal)
	}

	return splits, nil
}

// Totals extracts each person's final amount from a split result.
func Totals(splits map[string]*PersonSplit) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(splits))
	for p, s := range splits {
		totals[p] = s.Total
	}
	return totals
}

// ExpenseSplits turns per-person shares of one expense into split records,
// ordered by user id. The payer's own share is kept as a record; Aggregate
// ignores it.
func ExpenseSplits(expenseID, payerID string, shares map[string]decimal.Decimal) []ExpenseSplit {
	users := make([]string, 0, len(shares))
	for u := range shares {
		users = append(users, u)
	}
	sort.Strings(users)

	out := make([]ExpenseSplit, 0, len(users))
	for _, u := range users {
		out = append(out, ExpenseSplit{
			ExpenseID: expenseID,
			DebtorID:  u,
			PayerID:   payerID,
			Share:     shares[u],
		})
	}
	return out
}

// CheckShares verifies that explicit shares are non-negative and add up to
// the expense amount.
func CheckShares(amount decimal.Decimal, shares map[string]decimal.Decimal) error {
	if len(shares) == 0 {
		return fmt.Errorf("%w: expense has no shares", ErrInvalidInput)
	}
	sum := decimal.Zero
	for user, share := range shares {
		if err := validateParty("participant", user); err != nil {
			return err
		}
		if err := validateAmount("share", share); err != nil {
			return err
		}
		sum = sum.Add(share)
	}
	if !sum.Equal(amount) {
		return fmt.Errorf("%w: shares sum to %s, expense amount is %s", ErrInvalidInput, sum, amount)
	}
	return nil
}

func checkUnique(participants []string) error {
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if err := validateParty("participant", p); err != nil {
			return err
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate participant %q", ErrInvalidInput, p)
		}
		seen[p] = true
	}
	return nil
}
