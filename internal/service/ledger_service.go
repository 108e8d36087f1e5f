package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/xpense/internal/calculator"
	"github.com/mmynk/xpense/internal/metrics"
	"github.com/mmynk/xpense/internal/models"
	"github.com/mmynk/xpense/internal/storage"
	"github.com/mmynk/xpense/pkg/api"
	"github.com/mmynk/xpense/pkg/api/apiconnect"
)

var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService: recording expenses and
// payments, and turning a group's ledger into a settlement plan.
type LedgerService struct {
	store      storage.Store
	simplifier *calculator.Simplifier
	metrics    *metrics.Metrics
}

// NewLedgerService creates a LedgerService. m may be nil to disable metrics.
func NewLedgerService(store storage.Store, simplifier *calculator.Simplifier, m *metrics.Metrics) *LedgerService {
	return &LedgerService{store: store, simplifier: simplifier, metrics: m}
}

// findNewParticipants returns participants that are not already in existingMembers.
func findNewParticipants(participants, existingMembers []string) []string {
	memberSet := make(map[string]bool, len(existingMembers))
	for _, m := range existingMembers {
		memberSet[m] = true
	}
	var newOnes []string
	for _, p := range participants {
		if !memberSet[p] {
			memberSet[p] = true
			newOnes = append(newOnes, p)
		}
	}
	return newOnes
}

// autoAddParticipantsToGroup adds anyone named on an expense or payment who
// is not yet a member of the group.
func (s *LedgerService) autoAddParticipantsToGroup(ctx context.Context, group *models.Group, people []string) {
	newMembers := findNewParticipants(people, group.Members)
	if len(newMembers) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, group.ID, newMembers); err != nil {
		slog.Error("autoAddParticipantsToGroup: failed to add members", "group_id", group.ID, "error", err)
		return
	}
	slog.Info("Auto-added participants to group", "group_id", group.ID, "new_members", newMembers)
}

// RecordExpense stores an expense together with its per-participant shares.
func (s *LedgerService) RecordExpense(ctx context.Context, req *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.RecordExpenseResponse], error) {
	msg := req.Msg
	slog.Info("RecordExpense request received",
		"group_id", msg.GroupID,
		"payer_id", msg.PayerID,
		"amount", msg.Amount,
		"items_count", len(msg.Items),
		"shares_count", len(msg.Shares),
	)

	if msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	if msg.PayerID == "" {
		return nil, invalidArgument("payer_id required")
	}
	amount, err := positiveAmount("amount", msg.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.Equal(amount.Round(s.simplifier.Precision())) {
		return nil, invalidArgument("amount %s has more than %d decimal places", amount, s.simplifier.Precision())
	}
	date, err := parseDate(msg.Date)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, msg.GroupID)
	if err != nil {
		slog.Error("RecordExpense failed - group not found", "group_id", msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	shares, participants, err := s.expenseShares(msg, amount, group)
	if err != nil {
		slog.Warn("RecordExpense rejected", "group_id", msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	category := msg.Category
	if category == "" {
		category = calculator.Categorize(msg.Merchant)
	}

	expense := &models.Expense{
		GroupID:  group.ID,
		PayerID:  msg.PayerID,
		Amount:   amount,
		Merchant: msg.Merchant,
		Category: category,
		Date:     date,
	}
	for _, split := range calculator.ExpenseSplits("", msg.PayerID, shares) {
		expense.Shares = append(expense.Shares, models.Share{UserID: split.DebtorID, Amount: split.Share})
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("RecordExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	s.autoAddParticipantsToGroup(ctx, group, slices.Concat(participants, []string{msg.PayerID}))

	slog.Info("Expense recorded",
		"expense_id", expense.ID,
		"category", expense.Category,
		"shares_count", len(expense.Shares),
	)

	return connect.NewResponse(&api.RecordExpenseResponse{
		Expense: toAPIExpense(expense),
	}), nil
}

// expenseShares works out who owes what for a new expense. Explicit shares
// win over items, items over an equal split. It also returns everyone who
// received a share, in request order.
func (s *LedgerService) expenseShares(msg *api.RecordExpenseRequest, amount decimal.Decimal, group *models.Group) (map[string]decimal.Decimal, []string, error) {
	precision := s.simplifier.Precision()

	var shares map[string]decimal.Decimal
	var participants []string
	switch {
	case len(msg.Shares) > 0:
		shares = make(map[string]decimal.Decimal, len(msg.Shares))
		for _, share := range msg.Shares {
			if _, dup := shares[share.UserID]; dup {
				return nil, nil, fmt.Errorf("%w: duplicate share for %q", calculator.ErrInvalidInput, share.UserID)
			}
			shares[share.UserID] = share.Amount
			participants = append(participants, share.UserID)
		}

	case len(msg.Items) > 0:
		participants = msg.ParticipantIDs
		if len(participants) == 0 {
			participants = itemParticipants(msg.Items)
		}
		items := make([]calculator.Item, len(msg.Items))
		subtotal := decimal.Zero
		for i, item := range msg.Items {
			slog.Debug("Processing item",
				"index", i+1,
				"description", item.Description,
				"amount", item.Amount,
				"participants", item.ParticipantIDs,
			)
			items[i] = calculator.Item{
				Description:  item.Description,
				Amount:       item.Amount,
				Participants: item.ParticipantIDs,
			}
			subtotal = subtotal.Add(item.Amount)
		}
		if !msg.Subtotal.IsZero() {
			subtotal = msg.Subtotal
		}
		splits, err := calculator.CalculateSplit(items, amount, subtotal, participants, precision)
		if err != nil {
			return nil, nil, err
		}
		shares = calculator.Totals(splits)

	default:
		participants = msg.ParticipantIDs
		if len(participants) == 0 {
			participants = group.Members
		}
		var err error
		if shares, err = calculator.SplitEqually(amount, participants, precision); err != nil {
			return nil, nil, err
		}
	}

	if err := calculator.CheckShares(amount, shares); err != nil {
		return nil, nil, err
	}
	return shares, participants, nil
}

// itemParticipants lists everyone assigned to at least one item, in order
// of first appearance.
func itemParticipants(items []*api.Item) []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range items {
		for _, p := range item.ParticipantIDs {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// GetExpense retrieves one expense with its shares.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id required")
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns a group's expenses, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	slog.Info("ListExpenses request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, expense := range expenses {
		out[i] = toAPIExpense(expense)
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense and its shares.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if req.Msg.ExpenseID == "" {
		return nil, invalidArgument("expense_id required")
	}
	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteExpenseResponse{Success: true}), nil
}

// RecordPayment stores a direct transfer between two members.
func (s *LedgerService) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	msg := req.Msg
	slog.Info("RecordPayment request received",
		"group_id", msg.GroupID,
		"from", msg.FromUserID,
		"to", msg.ToUserID,
		"amount", msg.Amount,
	)

	if msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	if msg.FromUserID == "" || msg.ToUserID == "" {
		return nil, invalidArgument("from_user_id and to_user_id required")
	}
	if msg.FromUserID == msg.ToUserID {
		return nil, invalidArgument("cannot record a payment from %q to themselves", msg.FromUserID)
	}
	amount, err := positiveAmount("amount", msg.Amount)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(msg.Date)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, msg.GroupID)
	if err != nil {
		slog.Error("RecordPayment failed - group not found", "group_id", msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	payment := &models.Payment{
		GroupID:    group.ID,
		FromUserID: msg.FromUserID,
		ToUserID:   msg.ToUserID,
		Amount:     amount,
		Date:       date,
		Note:       msg.Note,
	}
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		slog.Error("RecordPayment failed", "error", err)
		return nil, toConnectError(err)
	}

	s.autoAddParticipantsToGroup(ctx, group, []string{msg.FromUserID, msg.ToUserID})

	slog.Info("Payment recorded", "payment_id", payment.ID)

	return connect.NewResponse(&api.RecordPaymentResponse{
		Payment: toAPIPayment(payment),
	}), nil
}

// ListPayments returns a group's payments, newest first.
func (s *LedgerService) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	slog.Info("ListPayments request received", "group_id", req.Msg.GroupID)

	if req.Msg.GroupID == "" {
		return nil, invalidArgument("group_id required")
	}
	if _, err := s.store.GetGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	payments, err := s.store.ListPaymentsByGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("ListPayments failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Payment, len(payments))
	for i, payment := range payments {
		out[i] = toAPIPayment(payment)
	}
	return connect.NewResponse(&api.ListPaymentsResponse{Payments: out}), nil
}

// DeletePayment removes a recorded payment.
func (s *LedgerService) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	slog.Info("DeletePayment request received", "payment_id", req.Msg.PaymentID)

	if req.Msg.PaymentID == "" {
		return nil, invalidArgument("payment_id required")
	}
	if err := s.store.DeletePayment(ctx, req.Msg.PaymentID); err != nil {
		slog.Error("DeletePayment failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeletePaymentResponse{Success: true}), nil
}

// GetBalances computes every member's net balance and a settlement plan from
// a consistent snapshot of the group's ledger.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("GetBalances request received", "group_id", groupID)

	if groupID == "" {
		return nil, invalidArgument("group_id required")
	}

	snap, err := s.store.LedgerSnapshot(ctx, groupID)
	if err != nil {
		slog.Error("GetBalances failed - could not read ledger", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	net, settlements, err := s.calculate(snap.Splits, snap.Payments)
	if err != nil {
		slog.Error("GetBalances failed - calculation error", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("GetBalances successful",
		"group_id", groupID,
		"splits_count", len(snap.Splits),
		"payments_count", len(snap.Payments),
		"settlements_count", len(settlements),
	)

	return connect.NewResponse(&api.GetBalancesResponse{
		Balances:    toAPIBalances(net, snap.Members, s.simplifier.Precision()),
		Settlements: toAPISettlements(settlements),
	}), nil
}

// SimplifyDebts runs the debt calculator over a ledger supplied in the
// request. Nothing is read from or written to storage.
func (s *LedgerService) SimplifyDebts(ctx context.Context, req *connect.Request[api.SimplifyDebtsRequest]) (*connect.Response[api.SimplifyDebtsResponse], error) {
	slog.Info("SimplifyDebts request received",
		"splits_count", len(req.Msg.Splits),
		"payments_count", len(req.Msg.Payments),
	)

	splits := make([]calculator.ExpenseSplit, len(req.Msg.Splits))
	for i, rec := range req.Msg.Splits {
		splits[i] = calculator.ExpenseSplit{
			ExpenseID: rec.ExpenseID,
			DebtorID:  rec.DebtorID,
			PayerID:   rec.PayerID,
			Share:     rec.Amount,
		}
	}
	payments := make([]calculator.Payment, len(req.Msg.Payments))
	for i, p := range req.Msg.Payments {
		payments[i] = calculator.Payment{
			FromUserID: p.FromUserID,
			ToUserID:   p.ToUserID,
			Amount:     p.Amount,
		}
	}

	net, settlements, err := s.calculate(splits, payments)
	if err != nil {
		slog.Warn("SimplifyDebts failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SimplifyDebtsResponse{
		Balances:    toAPIBalances(net, nil, s.simplifier.Precision()),
		Settlements: toAPISettlements(settlements),
	}), nil
}

func (s *LedgerService) calculate(splits []calculator.ExpenseSplit, payments []calculator.Payment) (calculator.NetBalances, []calculator.Settlement, error) {
	net, settlements, err := s.simplifier.CalculateDebts(splits, payments)

	participants := 0
	for _, v := range net {
		if !v.IsZero() {
			participants++
		}
	}
	s.metrics.ObserveSimplification(outcome(err), participants, len(settlements))
	return net, settlements, err
}

// GetSpendingSummary totals what a user paid per month and per category,
// predicts next month's budget from the recent average and flags a latest
// month that overshoots it.
func (s *LedgerService) GetSpendingSummary(ctx context.Context, req *connect.Request[api.GetSpendingSummaryRequest]) (*connect.Response[api.GetSpendingSummaryResponse], error) {
	slog.Info("GetSpendingSummary request received", "user_id", req.Msg.UserID, "window", req.Msg.Window)

	if req.Msg.UserID == "" {
		return nil, invalidArgument("user_id required")
	}
	if req.Msg.Window < 0 {
		return nil, invalidArgument("window must not be negative")
	}

	expenses, err := s.store.ListExpensesByPayer(ctx, req.Msg.UserID)
	if err != nil {
		slog.Error("GetSpendingSummary failed", "user_id", req.Msg.UserID, "error", err)
		return nil, toConnectError(err)
	}

	spends := make([]calculator.Spend, 0, len(expenses))
	for _, expense := range expenses {
		date, err := time.Parse(models.DateLayout, expense.Date)
		if err != nil {
			slog.Warn("Skipping expense with unparsable date", "expense_id", expense.ID, "date", expense.Date)
			continue
		}
		spends = append(spends, calculator.Spend{Date: date, Amount: expense.Amount, Category: expense.Category})
	}

	monthly := calculator.MonthlySpending(spends)
	predicted := calculator.PredictBudget(monthly, int(req.Msg.Window), s.simplifier.Precision())
	overBudget := calculator.OverBudget(monthly, predicted)

	months := make([]*api.MonthTotal, len(monthly))
	for i, m := range monthly {
		months[i] = &api.MonthTotal{Month: m.Month, Total: m.Total}
	}
	categoryTotals := calculator.CategoryTotals(spends)
	categories := make([]*api.CategoryTotal, len(categoryTotals))
	for i, c := range categoryTotals {
		categories[i] = &api.CategoryTotal{Category: c.Category, Total: c.Total}
	}

	if overBudget {
		slog.Warn("Latest month is over the predicted budget",
			"user_id", req.Msg.UserID,
			"month", monthly[len(monthly)-1].Month,
			"predicted", predicted,
		)
	}

	return connect.NewResponse(&api.GetSpendingSummaryResponse{
		Months:          months,
		Categories:      categories,
		PredictedBudget: predicted,
		OverBudget:      overBudget,
	}), nil
}
