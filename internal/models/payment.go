package models

import "github.com/shopspring/decimal"

// Payment represents money handed directly from one member to another.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// GroupID is the group this payment belongs to.
	GroupID string

	// FromUserID is the member who paid.
	FromUserID string

	// ToUserID is the member who received the money.
	ToUserID string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// Date is the day of the payment (YYYY-MM-DD).
	Date string

	// Note is an optional description for the payment.
	Note string

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64
}
