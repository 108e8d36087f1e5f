// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/xpense/internal/calculator"
	"github.com/mmynk/xpense/internal/models"
)

// ErrNotFound is returned (wrapped) when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Snapshot is a consistent view of one group's ledger, ready for the
// debt calculator.
type Snapshot struct {
	Members  []string
	Splits   []calculator.ExpenseSplit
	Payments []calculator.Payment
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group. ID and CreatedAt are filled in when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its members.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups returns all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// DeleteGroup removes a group and everything recorded in it.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMembers adds members to a group, ignoring ones already present.
	AddGroupMembers(ctx context.Context, groupID string, members []string) error

	// CreateExpense persists an expense and its shares in one transaction.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its shares.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup returns a group's expenses, newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// ListExpensesByPayer returns every expense paid by a member, oldest first.
	ListExpensesByPayer(ctx context.Context, payerID string) ([]*models.Expense, error)

	// DeleteExpense removes an expense and its shares.
	DeleteExpense(ctx context.Context, expenseID string) error

	// CreatePayment persists a payment. ID and CreatedAt are filled in when empty.
	CreatePayment(ctx context.Context, payment *models.Payment) error

	// ListPaymentsByGroup returns a group's payments, newest first.
	ListPaymentsByGroup(ctx context.Context, groupID string) ([]*models.Payment, error)

	// DeletePayment removes a payment.
	DeletePayment(ctx context.Context, paymentID string) error

	// LedgerSnapshot reads a group's members, splits and payments in a single
	// read transaction, in recording order.
	LedgerSnapshot(ctx context.Context, groupID string) (*Snapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
