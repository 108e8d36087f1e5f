package models

import "github.com/shopspring/decimal"

// DateLayout is the format of Expense.Date and Payment.Date.
const DateLayout = "2006-01-02"

// Expense represents one purchase paid by a single group member.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group the expense belongs to.
	GroupID string

	// PayerID is the member who paid the full amount.
	PayerID string

	// Amount is the total paid.
	Amount decimal.Decimal

	// Merchant is where the money was spent.
	Merchant string

	// Category is a spending category such as "Food".
	// Derived from Merchant when left empty.
	Category string

	// Date is the day of the purchase (YYYY-MM-DD).
	Date string

	// Shares are the per-participant portions; they sum to Amount.
	// The payer may hold a share of their own.
	Shares []Share

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Share is the part of an expense owed by one participant.
type Share struct {
	UserID string
	Amount decimal.Decimal
}
