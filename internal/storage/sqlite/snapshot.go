package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/xpense/internal/calculator"
	"github.com/mmynk/xpense/internal/storage"
)

// LedgerSnapshot reads everything the debt calculator needs for one group
// inside a single transaction, so concurrent writers cannot tear it.
func (s *SQLiteStore) LedgerSnapshot(ctx context.Context, groupID string) (*storage.Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM groups WHERE id = ?", groupID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check group existence: %w", err)
	}

	snap := &storage.Snapshot{}
	if snap.Members, err = queryMembers(ctx, tx, groupID); err != nil {
		return nil, err
	}

	splitRows, err := tx.QueryContext(ctx,
		`SELECT s.expense_id, s.user_id, e.payer_id, s.share_amount
		 FROM expense_splits s JOIN expenses e ON e.id = s.expense_id
		 WHERE e.group_id = ?
		 ORDER BY e.created_at, e.id, s.user_id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read expense splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var split calculator.ExpenseSplit
		if err := splitRows.Scan(&split.ExpenseID, &split.DebtorID, &split.PayerID, &split.Share); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		snap.Splits = append(snap.Splits, split)
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	paymentRows, err := tx.QueryContext(ctx,
		`SELECT from_user_id, to_user_id, amount FROM payments
		 WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read payments: %w", err)
	}
	defer paymentRows.Close()

	for paymentRows.Next() {
		var payment calculator.Payment
		if err := paymentRows.Scan(&payment.FromUserID, &payment.ToUserID, &payment.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		snap.Payments = append(snap.Payments, payment)
	}
	if err := paymentRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return snap, nil
}
