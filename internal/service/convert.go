package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/xpense/internal/calculator"
	"github.com/mmynk/xpense/internal/models"
	"github.com/mmynk/xpense/pkg/api"
)

func toAPIGroup(group *models.Group) *api.Group {
	return &api.Group{
		ID:        group.ID,
		Name:      group.Name,
		Members:   group.Members,
		CreatedAt: group.CreatedAt,
	}
}

func toAPIExpense(expense *models.Expense) *api.Expense {
	shares := make([]*api.Share, len(expense.Shares))
	for i, share := range expense.Shares {
		shares[i] = &api.Share{
			UserID: share.UserID,
			Amount: share.Amount,
		}
	}
	return &api.Expense{
		ID:        expense.ID,
		GroupID:   expense.GroupID,
		PayerID:   expense.PayerID,
		Amount:    expense.Amount,
		Merchant:  expense.Merchant,
		Category:  expense.Category,
		Date:      expense.Date,
		Shares:    shares,
		CreatedAt: expense.CreatedAt,
	}
}

func toAPIPayment(payment *models.Payment) *api.Payment {
	return &api.Payment{
		ID:         payment.ID,
		GroupID:    payment.GroupID,
		FromUserID: payment.FromUserID,
		ToUserID:   payment.ToUserID,
		Amount:     payment.Amount,
		Date:       payment.Date,
		Note:       payment.Note,
		CreatedAt:  payment.CreatedAt,
	}
}

// toAPIBalances lists members first, in the given order, followed by any
// other user that holds a balance. Amounts are rounded to precision.
func toAPIBalances(net calculator.NetBalances, members []string, precision int32) []*api.MemberBalance {
	listed := make(map[string]bool, len(members))
	balances := make([]*api.MemberBalance, 0, len(net)+len(members))
	add := func(user string) {
		if listed[user] {
			return
		}
		listed[user] = true
		balances = append(balances, &api.MemberBalance{
			UserID:     user,
			NetBalance: net[user].Round(precision),
		})
	}

	for _, m := range members {
		add(m)
	}
	for _, u := range net.Users() {
		add(u)
	}
	return balances
}

func toAPISettlements(settlements []calculator.Settlement) []*api.Settlement {
	out := make([]*api.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = &api.Settlement{
			FromUserID: s.FromUserID,
			ToUserID:   s.ToUserID,
			Amount:     s.Amount,
		}
	}
	return out
}

// positiveAmount checks that a request amount is greater than zero.
func positiveAmount(name string, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, invalidArgument("%s must be positive, got %s", name, amount)
	}
	return amount, nil
}

// parseDate validates a YYYY-MM-DD date, defaulting to today.
func parseDate(date string) (string, error) {
	if date == "" {
		return time.Now().Format(models.DateLayout), nil
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return "", invalidArgument("date %q must be YYYY-MM-DD", date)
	}
	return date, nil
}
