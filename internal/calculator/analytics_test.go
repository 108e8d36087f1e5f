package calculator

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestMonthlySpending(t *testing.T) {
	got := MonthlySpending([]Spend{
		{Date: day("2024-03-15"), Amount: d("40")},
		{Date: day("2024-01-02"), Amount: d("10.50")},
		{Date: day("2024-01-31"), Amount: d("4.50")},
		{Date: day("2023-12-24"), Amount: d("100")},
	})

	want := []MonthTotal{
		{Month: "2023-12", Total: d("100")},
		{Month: "2024-01", Total: d("15")},
		{Month: "2024-03", Total: d("40")},
	}
	if len(got) != len(want) {
		t.Fatalf("MonthlySpending() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Month != want[i].Month || !got[i].Total.Equal(want[i].Total) {
			t.Errorf("month %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPredictBudget(t *testing.T) {
	months := []MonthTotal{
		{Month: "2024-01", Total: d("100")},
		{Month: "2024-02", Total: d("200")},
		{Month: "2024-03", Total: d("300")},
		{Month: "2024-04", Total: d("401")},
	}

	tests := []struct {
		name    string
		monthly []MonthTotal
		window  int
		want    string
	}{
		{name: "no data", monthly: nil, window: 3, want: "0"},
		{name: "fewer months than window", monthly: months[:2], window: 3, want: "150"},
		{name: "last three months", monthly: months, window: 3, want: "300.33"},
		{name: "default window", monthly: months, window: 0, want: "300.33"},
		{name: "window of one", monthly: months, window: 1, want: "401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PredictBudget(tt.monthly, tt.window, 2)
			if !got.Equal(d(tt.want)) {
				t.Errorf("PredictBudget() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCategoryTotals(t *testing.T) {
	got := CategoryTotals([]Spend{
		{Date: day("2024-01-02"), Amount: d("12.50"), Category: CategoryFood},
		{Date: day("2024-01-05"), Amount: d("40"), Category: CategoryTransportation},
		{Date: day("2024-02-01"), Amount: d("27.50"), Category: CategoryFood},
		{Date: day("2024-02-03"), Amount: d("15")},
		{Date: day("2024-02-09"), Amount: d("15"), Category: CategoryEntertainment},
	})

	want := []CategoryTotal{
		{Category: CategoryFood, Total: d("40")},
		{Category: CategoryTransportation, Total: d("40")},
		{Category: CategoryEntertainment, Total: d("15")},
		{Category: CategoryUncategorized, Total: d("15")},
	}
	if len(got) != len(want) {
		t.Fatalf("CategoryTotals() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Category != want[i].Category || !got[i].Total.Equal(want[i].Total) {
			t.Errorf("category %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got := CategoryTotals(nil); len(got) != 0 {
		t.Errorf("CategoryTotals(nil) = %v, want empty", got)
	}
}

func TestOverBudget(t *testing.T) {
	months := []MonthTotal{
		{Month: "2024-01", Total: d("100")},
		{Month: "2024-02", Total: d("120")},
	}

	tests := []struct {
		name      string
		monthly   []MonthTotal
		predicted string
		want      bool
	}{
		{name: "no data", monthly: nil, predicted: "0", want: false},
		{name: "above 1.2 times prediction", monthly: months, predicted: "99.99", want: true},
		{name: "exactly 1.2 times prediction", monthly: months, predicted: "100", want: false},
		{name: "below prediction", monthly: months, predicted: "150", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OverBudget(tt.monthly, d(tt.predicted)); got != tt.want {
				t.Errorf("OverBudget() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		merchant string
		want     string
	}{
		{"Joe's Restaurant", CategoryFood},
		{"Corner CAFE", CategoryFood},
		{"Shell Gas Station", CategoryTransportation},
		{"QuickFuel", CategoryTransportation},
		{"Cinema City", CategoryEntertainment},
		{"Movie Night", CategoryEntertainment},
		{"Hardware Store", CategoryUncategorized},
		{"", CategoryUncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.merchant, func(t *testing.T) {
			if got := Categorize(tt.merchant); got != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.merchant, got, tt.want)
			}
		})
	}
}
