package calculator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSimplifyDebts_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		splits   []ExpenseSplit
		payments []Payment
		wantNet  NetBalances
		want     []Settlement
	}{
		{
			name: "A: equal split of one expense",
			splits: []ExpenseSplit{
				{ExpenseID: "e1", DebtorID: "1", PayerID: "1", Share: d("10")},
				{ExpenseID: "e1", DebtorID: "2", PayerID: "1", Share: d("10")},
				{ExpenseID: "e1", DebtorID: "3", PayerID: "1", Share: d("10")},
			},
			wantNet: NetBalances{"1": d("-20"), "2": d("10"), "3": d("10")},
			want: []Settlement{
				{FromUserID: "2", ToUserID: "1", Amount: d("10")},
				{FromUserID: "3", ToUserID: "1", Amount: d("10")},
			},
		},
		{
			name: "B: cycle collapses",
			splits: []ExpenseSplit{
				{ExpenseID: "e1", DebtorID: "A", PayerID: "B", Share: d("10")},
				{ExpenseID: "e2", DebtorID: "B", PayerID: "C", Share: d("10")},
				{ExpenseID: "e3", DebtorID: "C", PayerID: "A", Share: d("10")},
			},
			wantNet: NetBalances{},
			want:    nil,
		},
		{
			name: "C: payment reduces debt",
			splits: []ExpenseSplit{
				{ExpenseID: "e1", DebtorID: "2", PayerID: "1", Share: d("15")},
			},
			payments: []Payment{
				{FromUserID: "2", ToUserID: "1", Amount: d("15")},
			},
			wantNet: NetBalances{},
			want:    nil,
		},
		{
			name: "D: two debtors, one creditor",
			splits: []ExpenseSplit{
				{ExpenseID: "e1", DebtorID: "A", PayerID: "C", Share: d("5")},
				{ExpenseID: "e1", DebtorID: "B", PayerID: "C", Share: d("5")},
			},
			wantNet: NetBalances{"A": d("5"), "B": d("5"), "C": d("-10")},
			want: []Settlement{
				{FromUserID: "A", ToUserID: "C", Amount: d("5")},
				{FromUserID: "B", ToUserID: "C", Amount: d("5")},
			},
		},
		{
			name: "chain is shortcut past the middle user",
			splits: []ExpenseSplit{
				{ExpenseID: "e1", DebtorID: "A", PayerID: "B", Share: d("10")},
				{ExpenseID: "e2", DebtorID: "B", PayerID: "C", Share: d("10")},
			},
			wantNet: NetBalances{"A": d("10"), "C": d("-10")},
			want: []Settlement{
				{FromUserID: "A", ToUserID: "C", Amount: d("10")},
			},
		},
		{
			name: "overpayment turns the payer into a creditor",
			splits: []ExpenseSplit{
				{ExpenseID: "e1", DebtorID: "2", PayerID: "1", Share: d("10")},
			},
			payments: []Payment{
				{FromUserID: "2", ToUserID: "1", Amount: d("12.50")},
			},
			wantNet: NetBalances{"1": d("2.5"), "2": d("-2.5")},
			want: []Settlement{
				{FromUserID: "1", ToUserID: "2", Amount: d("2.5")},
			},
		},
		{
			name: "largest debtor is matched with largest creditor first",
			splits: []ExpenseSplit{
				{ExpenseID: "e1", DebtorID: "a", PayerID: "x", Share: d("30")},
				{ExpenseID: "e2", DebtorID: "b", PayerID: "y", Share: d("20")},
				{ExpenseID: "e3", DebtorID: "b", PayerID: "x", Share: d("5")},
			},
			wantNet: NetBalances{"a": d("30"), "b": d("25"), "x": d("-35"), "y": d("-20")},
			want: []Settlement{
				{FromUserID: "a", ToUserID: "x", Amount: d("30")},
				{FromUserID: "b", ToUserID: "y", Amount: d("20")},
				{FromUserID: "b", ToUserID: "x", Amount: d("5")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, got, err := CalculateDebts(tt.splits, tt.payments)
			if err != nil {
				t.Fatalf("CalculateDebts() unexpected error: %v", err)
			}

			if len(net) != len(tt.wantNet) {
				t.Fatalf("net = %v, want %v", net, tt.wantNet)
			}
			for user, want := range tt.wantNet {
				if !net[user].Equal(want) {
					t.Errorf("net[%s] = %s, want %s", user, net[user], want)
				}
			}

			if len(got) != len(tt.want) {
				t.Fatalf("settlements = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i].FromUserID != tt.want[i].FromUserID ||
					got[i].ToUserID != tt.want[i].ToUserID ||
					!got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("settlement %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSimplify_TieBreakLowestUserID(t *testing.T) {
	net := NetBalances{
		"carol": d("10"),
		"alice": d("10"),
		"bob":   d("10"),
		"zed":   d("-15"),
		"yan":   d("-15"),
	}

	got, err := SimplifyDebts(net)
	if err != nil {
		t.Fatalf("SimplifyDebts() unexpected error: %v", err)
	}

	want := []Settlement{
		{FromUserID: "alice", ToUserID: "yan", Amount: d("10")},
		{FromUserID: "bob", ToUserID: "zed", Amount: d("10")},
		{FromUserID: "carol", ToUserID: "yan", Amount: d("5")},
		{FromUserID: "carol", ToUserID: "zed", Amount: d("5")},
	}
	if len(got) != len(want) {
		t.Fatalf("SimplifyDebts() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].FromUserID != want[i].FromUserID || got[i].ToUserID != want[i].ToUserID ||
			!got[i].Amount.Equal(want[i].Amount) {
			t.Errorf("settlement %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSimplify_Errors(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		net     NetBalances
		wantErr error
	}{
		{
			name:    "unbalanced input",
			opts:    DefaultOptions(),
			net:     NetBalances{"a": d("10"), "b": d("-9")},
			wantErr: ErrConservationViolation,
		},
		{
			name:    "only debtors",
			opts:    DefaultOptions(),
			net:     NetBalances{"a": d("10")},
			wantErr: ErrConservationViolation,
		},
		{
			name:    "empty user id",
			opts:    DefaultOptions(),
			net:     NetBalances{"": d("10"), "b": d("-10")},
			wantErr: ErrInvalidInput,
		},
		{
			name: "too many participants",
			opts: Options{Precision: 2, Epsilon: DefaultEpsilon, MaxParticipants: 2},
			net: NetBalances{
				"a": d("10"), "b": d("-5"), "c": d("-5"),
			},
			wantErr: ErrTooManyParticipants,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSimplifier(tt.opts).Simplify(tt.net)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Simplify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSimplify_ConservationIsNotInvalidInput(t *testing.T) {
	_, err := SimplifyDebts(NetBalances{"a": d("1")})
	if errors.Is(err, ErrInvalidInput) {
		t.Errorf("conservation failure reported as invalid input: %v", err)
	}
}

func TestSimplify_IgnoresBalancesWithinEpsilon(t *testing.T) {
	net := NetBalances{
		"a": d("10"),
		"b": d("-9.9999999995"),
		"c": d("-0.0000000005"),
	}

	got, err := SimplifyDebts(net)
	if err != nil {
		t.Fatalf("SimplifyDebts() unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].FromUserID != "a" || got[0].ToUserID != "b" || !got[0].Amount.Equal(d("10")) {
		t.Errorf("SimplifyDebts() = %v, want [a->b 10]", got)
	}
}

func TestSimplify_RoundingResidue(t *testing.T) {
	tests := []struct {
		name string
		net  NetBalances
		want []Settlement
	}{
		{
			name: "residue lands on the last settlement only",
			net:  NetBalances{"a": d("3.333"), "b": d("3.333"), "c": d("3.334"), "x": d("-10")},
			want: []Settlement{
				{FromUserID: "c", ToUserID: "x", Amount: d("3.33")},
				{FromUserID: "a", ToUserID: "x", Amount: d("3.33")},
				{FromUserID: "b", ToUserID: "x", Amount: d("3.34")},
			},
		},
		{
			name: "negative residue drops a settlement it zeroes",
			net:  NetBalances{"a": d("0.005"), "b": d("0.005"), "c": d("-0.01")},
			want: []Settlement{
				{FromUserID: "a", ToUserID: "c", Amount: d("0.01")},
			},
		},
		{
			name: "debts below one cent produce nothing",
			net:  NetBalances{"a": d("0.004"), "b": d("0.004"), "x": d("-0.008")},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SimplifyDebts(tt.net)
			if err != nil {
				t.Fatalf("SimplifyDebts() unexpected error: %v", err)
			}
			if !sameSettlements(got, tt.want) {
				t.Errorf("SimplifyDebts() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettleResidue(t *testing.T) {
	settlements := []Settlement{
		{FromUserID: "a", ToUserID: "x", Amount: d("5")},
		{FromUserID: "b", ToUserID: "x", Amount: d("0.01")},
	}

	// The second settlement absorbs 0.01 and is dropped; the first takes the rest.
	got := settleResidue(append([]Settlement(nil), settlements...), d("-0.03"))
	want := []Settlement{{FromUserID: "a", ToUserID: "x", Amount: d("4.98")}}
	if !sameSettlements(got, want) {
		t.Errorf("settleResidue() = %v, want %v", got, want)
	}

	if got := settleResidue(nil, d("0.01")); len(got) != 0 {
		t.Errorf("settleResidue(nil) = %v, want empty", got)
	}
}

func TestSimplify_ZeroPrecision(t *testing.T) {
	net := NetBalances{"a": d("100"), "b": d("-100")}
	s := NewSimplifier(Options{Precision: 0, Epsilon: DefaultEpsilon})

	got, err := s.Simplify(net)
	if err != nil {
		t.Fatalf("Simplify() unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].Amount.Equal(d("100")) {
		t.Errorf("Simplify() = %v, want [a->b 100]", got)
	}
	if s.Precision() != 0 {
		t.Errorf("Precision() = %d, want 0", s.Precision())
	}
}

// randomLedger builds a ledger of cent-precision expenses and payments.
func randomLedger(r *rand.Rand, users, expenses, payments int) ([]ExpenseSplit, []Payment) {
	ids := make([]string, users)
	for i := range ids {
		ids[i] = fmt.Sprintf("u%02d", i)
	}

	var splits []ExpenseSplit
	for e := 0; e < expenses; e++ {
		payer := ids[r.IntN(users)]
		n := 1 + r.IntN(users)
		perm := r.Perm(users)[:n]
		participants := make([]string, n)
		for i, p := range perm {
			participants[i] = ids[p]
		}
		amount := decimal.New(int64(1+r.IntN(100000)), -2)
		shares, err := SplitEqually(amount, participants, 2)
		if err != nil {
			panic(err)
		}
		splits = append(splits, ExpenseSplits(fmt.Sprintf("e%d", e), payer, shares)...)
	}

	var pays []Payment
	for p := 0; p < payments; p++ {
		pays = append(pays, Payment{
			FromUserID: ids[r.IntN(users)],
			ToUserID:   ids[r.IntN(users)],
			Amount:     decimal.New(int64(r.IntN(50000)), -2),
		})
	}
	return splits, pays
}

func TestSimplify_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))

	for round := 0; round < 50; round++ {
		users := 2 + r.IntN(12)
		splits, payments := randomLedger(r, users, 1+r.IntN(20), r.IntN(10))

		t.Run(fmt.Sprintf("ledger-%d", round), func(t *testing.T) {
			net, settlements, err := CalculateDebts(splits, payments)
			if err != nil {
				t.Fatalf("CalculateDebts() unexpected error: %v", err)
			}

			// Conservation
			if !net.Sum().IsZero() {
				t.Errorf("net balances sum to %s", net.Sum())
			}

			// Settlement correctness
			if left := Apply(net, settlements); len(left) != 0 {
				t.Errorf("balances left after settling: %v", left)
			}

			// No self payment, positive amounts
			for _, s := range settlements {
				if s.FromUserID == s.ToUserID {
					t.Errorf("self payment %+v", s)
				}
				if !s.Amount.IsPositive() {
					t.Errorf("non-positive amount %+v", s)
				}
			}

			// At most users-1 transfers
			if len(net) > 0 && len(settlements) > len(net)-1 {
				t.Errorf("%d settlements for %d users", len(settlements), len(net))
			}

			// Determinism
			_, again, err := CalculateDebts(splits, payments)
			if err != nil {
				t.Fatalf("CalculateDebts() second run: %v", err)
			}
			if !sameSettlements(settlements, again) {
				t.Errorf("non-deterministic output:\n%v\n%v", settlements, again)
			}

			// Idempotence
			resimplified, err := SimplifyDebts(Apply(net, settlements))
			if err != nil {
				t.Fatalf("SimplifyDebts() on settled ledger: %v", err)
			}
			if len(resimplified) != 0 {
				t.Errorf("settled ledger produced %v", resimplified)
			}
		})
	}
}

func TestSimplify_DoesNotMutateInput(t *testing.T) {
	net := NetBalances{"a": d("5"), "b": d("5"), "c": d("-10")}
	if _, err := SimplifyDebts(net); err != nil {
		t.Fatalf("SimplifyDebts() unexpected error: %v", err)
	}
	if len(net) != 3 || !net["c"].Equal(d("-10")) {
		t.Errorf("input modified: %v", net)
	}
}

func sameSettlements(a, b []Settlement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].FromUserID != b[i].FromUserID || a[i].ToUserID != b[i].ToUserID || !a[i].Amount.Equal(b[i].Amount) {
			return false
		}
	}
	return true
}
