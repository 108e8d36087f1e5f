// Package api defines the request and response messages of the xpense RPC
// services. Messages travel as JSON. Amounts are encoded as decimal strings
// such as "12.5"; bare JSON numbers are accepted on input.
package api

import "github.com/shopspring/decimal"

// Group is a set of people who share expenses.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct {
	Success bool `json:"success"`
}

// Share is the part of an expense attributed to one participant.
type Share struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Item is a receipt line shared by the listed participants.
type Item struct {
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	ParticipantIDs []string        `json:"participant_ids"`
}

type Expense struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	PayerID   string          `json:"payer_id"`
	Amount    decimal.Decimal `json:"amount"`
	Merchant  string          `json:"merchant,omitempty"`
	Category  string          `json:"category"`
	Date      string          `json:"date"`
	Shares    []*Share        `json:"shares"`
	CreatedAt int64           `json:"created_at"`
}

// RecordExpenseRequest records an expense. Exactly one way of splitting is
// used, checked in this order:
//   - Shares: explicit amounts that must add up to Amount
//   - Items: itemized receipt; Subtotal is the pre-tax sum, Amount the total
//   - otherwise Amount is split equally among ParticipantIDs
type RecordExpenseRequest struct {
	GroupID        string          `json:"group_id"`
	PayerID        string          `json:"payer_id"`
	Amount         decimal.Decimal `json:"amount"`
	Merchant       string          `json:"merchant,omitempty"`
	Category       string          `json:"category,omitempty"`
	Date           string          `json:"date,omitempty"`
	ParticipantIDs []string        `json:"participant_ids,omitempty"`
	Shares         []*Share        `json:"shares,omitempty"`
	Items          []*Item         `json:"items,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal,omitzero"`
}

type RecordExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct {
	Success bool `json:"success"`
}

type Payment struct {
	ID         string          `json:"id"`
	GroupID    string          `json:"group_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  int64           `json:"created_at"`
}

type RecordPaymentRequest struct {
	GroupID    string          `json:"group_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date,omitempty"`
	Note       string          `json:"note,omitempty"`
}

type RecordPaymentResponse struct {
	Payment *Payment `json:"payment"`
}

type ListPaymentsRequest struct {
	GroupID string `json:"group_id"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}

type DeletePaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

type DeletePaymentResponse struct {
	Success bool `json:"success"`
}

// MemberBalance is one user's net position. Positive means the user must
// pay, negative means the user is owed money.
type MemberBalance struct {
	UserID     string          `json:"user_id"`
	NetBalance decimal.Decimal `json:"net_balance"`
}

// Settlement instructs FromUserID to pay ToUserID.
type Settlement struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type GetBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetBalancesResponse struct {
	Balances    []*MemberBalance `json:"balances"`
	Settlements []*Settlement    `json:"settlements"`
}

// SplitRecord is one participant's share of an expense paid by PayerID.
type SplitRecord struct {
	ExpenseID string          `json:"expense_id"`
	DebtorID  string          `json:"debtor_id"`
	PayerID   string          `json:"payer_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// Transfer is a payment already made from one user to another.
type Transfer struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// SimplifyDebtsRequest carries a complete ledger; nothing is read from or
// written to storage.
type SimplifyDebtsRequest struct {
	Splits   []*SplitRecord `json:"splits"`
	Payments []*Transfer    `json:"payments"`
}

type SimplifyDebtsResponse struct {
	Balances    []*MemberBalance `json:"balances"`
	Settlements []*Settlement    `json:"settlements"`
}

type MonthTotal struct {
	Month string          `json:"month"`
	Total decimal.Decimal `json:"total"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type GetSpendingSummaryRequest struct {
	UserID string `json:"user_id"`
	// Window is the number of months averaged for the prediction (default 3).
	Window int32 `json:"window,omitempty"`
}

type GetSpendingSummaryResponse struct {
	Months          []*MonthTotal    `json:"months"`
	Categories      []*CategoryTotal `json:"categories"`
	PredictedBudget decimal.Decimal  `json:"predicted_budget"`
	// OverBudget is set when the latest month exceeds 1.2x PredictedBudget.
	OverBudget bool `json:"over_budget"`
}
