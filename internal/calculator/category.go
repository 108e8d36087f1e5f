package calculator

import "strings"

// Expense categories assigned by Categorize.
const (
	CategoryFood           = "Food"
	CategoryTransportation = "Transportation"
	CategoryEntertainment  = "Entertainment"
	CategoryUncategorized  = "Uncategorized"
)

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryFood, []string{"restaurant", "cafe"}},
	{CategoryTransportation, []string{"gas", "fuel"}},
	{CategoryEntertainment, []string{"movie", "cinema"}},
}

// Categorize guesses an expense category from the merchant name.
// Rules are checked in order and the first keyword hit wins.
func Categorize(merchant string) string {
	m := strings.ToLower(merchant)
	for _, rule := range categoryKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(m, kw) {
				return rule.category
			}
		}
	}
	return CategoryUncategorized
}
