package calculator

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBudgetWindow is the number of months averaged by PredictBudget.
const DefaultBudgetWindow = 3

// overBudgetFactor is how far the latest month may exceed the prediction
// before OverBudget reports it.
var overBudgetFactor = decimal.RequireFromString("1.2")

// Spend is one amount a user paid on a given day.
type Spend struct {
	Date     time.Time
	Amount   decimal.Decimal
	Category string
}

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// MonthTotal is the amount spent in one calendar month (YYYY-MM).
type MonthTotal struct {
	Month string
	Total decimal.Decimal
}

// MonthlySpending sums spends per calendar month, oldest month first.
func MonthlySpending(spends []Spend) []MonthTotal {
	totals := make(map[string]decimal.Decimal)
	for _, s := range spends {
		month := s.Date.Format("2006-01")
		totals[month] = totals[month].Add(s.Amount)
	}

	months := make([]MonthTotal, 0, len(totals))
	for m, t := range totals {
		months = append(months, MonthTotal{Month: m, Total: t})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}

// PredictBudget projects next month's spend as the moving average of the
// last window months. Fewer months than window are averaged as they are;
// no data predicts zero.
func PredictBudget(monthly []MonthTotal, window int, precision int32) decimal.Decimal {
	if len(monthly) == 0 {
		return decimal.Zero
	}
	if window <= 0 {
		window = DefaultBudgetWindow
	}
	if window > len(monthly) {
		window = len(monthly)
	}

	sum := decimal.Zero
	for _, m := range monthly[len(monthly)-window:] {
		sum = sum.Add(m.Total)
	}
	return sum.DivRound(decimal.NewFromInt(int64(window)), precision)
}

// CategoryTotals sums spends per category, largest total first and ties by
// name. Spends without a category count as Uncategorized.
func CategoryTotals(spends []Spend) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, s := range spends {
		category := s.Category
		if category == "" {
			category = CategoryUncategorized
		}
		totals[category] = totals[category].Add(s.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for c, t := range totals {
		out = append(out, CategoryTotal{Category: c, Total: t})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// OverBudget reports whether the latest month spent more than 1.2 times the
// predicted budget.
func OverBudget(monthly []MonthTotal, predicted decimal.Decimal) bool {
	if len(monthly) == 0 {
		return false
	}
	return monthly[len(monthly)-1].Total.GreaterThan(predicted.Mul(overBudgetFactor))
}
