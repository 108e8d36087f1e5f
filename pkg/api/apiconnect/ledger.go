package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/xpense/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "xpense.v1.LedgerService"

// Procedure paths of the LedgerService RPCs.
const (
	LedgerServiceRecordExpenseProcedure      = "/xpense.v1.LedgerService/RecordExpense"
	LedgerServiceGetExpenseProcedure         = "/xpense.v1.LedgerService/GetExpense"
	LedgerServiceListExpensesProcedure       = "/xpense.v1.LedgerService/ListExpenses"
	LedgerServiceDeleteExpenseProcedure      = "/xpense.v1.LedgerService/DeleteExpense"
	LedgerServiceRecordPaymentProcedure      = "/xpense.v1.LedgerService/RecordPayment"
	LedgerServiceListPaymentsProcedure       = "/xpense.v1.LedgerService/ListPayments"
	LedgerServiceDeletePaymentProcedure      = "/xpense.v1.LedgerService/DeletePayment"
	LedgerServiceGetBalancesProcedure        = "/xpense.v1.LedgerService/GetBalances"
	LedgerServiceSimplifyDebtsProcedure      = "/xpense.v1.LedgerService/SimplifyDebts"
	LedgerServiceGetSpendingSummaryProcedure = "/xpense.v1.LedgerService/GetSpendingSummary"
)

// LedgerServiceHandler is implemented by the server side of LedgerService.
type LedgerServiceHandler interface {
	RecordExpense(context.Context, *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.RecordExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	SimplifyDebts(context.Context, *connect.Request[api.SimplifyDebtsRequest]) (*connect.Response[api.SimplifyDebtsResponse], error)
	GetSpendingSummary(context.Context, *connect.Request[api.GetSpendingSummaryRequest]) (*connect.Response[api.GetSpendingSummaryResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{WithJSON()}, opts...)
	recordExpense := connect.NewUnaryHandler(LedgerServiceRecordExpenseProcedure, svc.RecordExpense, opts...)
	getExpense := connect.NewUnaryHandler(LedgerServiceGetExpenseProcedure, svc.GetExpense, opts...)
	listExpenses := connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...)
	deleteExpense := connect.NewUnaryHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...)
	recordPayment := connect.NewUnaryHandler(LedgerServiceRecordPaymentProcedure, svc.RecordPayment, opts...)
	listPayments := connect.NewUnaryHandler(LedgerServiceListPaymentsProcedure, svc.ListPayments, opts...)
	deletePayment := connect.NewUnaryHandler(LedgerServiceDeletePaymentProcedure, svc.DeletePayment, opts...)
	getBalances := connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...)
	simplifyDebts := connect.NewUnaryHandler(LedgerServiceSimplifyDebtsProcedure, svc.SimplifyDebts, opts...)
	getSpendingSummary := connect.NewUnaryHandler(LedgerServiceGetSpendingSummaryProcedure, svc.GetSpendingSummary, opts...)

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceRecordExpenseProcedure:
			recordExpense.ServeHTTP(w, r)
		case LedgerServiceGetExpenseProcedure:
			getExpense.ServeHTTP(w, r)
		case LedgerServiceListExpensesProcedure:
			listExpenses.ServeHTTP(w, r)
		case LedgerServiceDeleteExpenseProcedure:
			deleteExpense.ServeHTTP(w, r)
		case LedgerServiceRecordPaymentProcedure:
			recordPayment.ServeHTTP(w, r)
		case LedgerServiceListPaymentsProcedure:
			listPayments.ServeHTTP(w, r)
		case LedgerServiceDeletePaymentProcedure:
			deletePayment.ServeHTTP(w, r)
		case LedgerServiceGetBalancesProcedure:
			getBalances.ServeHTTP(w, r)
		case LedgerServiceSimplifyDebtsProcedure:
			simplifyDebts.ServeHTTP(w, r)
		case LedgerServiceGetSpendingSummaryProcedure:
			getSpendingSummary.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LedgerServiceClient is a client for the LedgerService service.
type LedgerServiceClient interface {
	RecordExpense(context.Context, *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.RecordExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
	RecordPayment(context.Context, *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error)
	DeletePayment(context.Context, *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	SimplifyDebts(context.Context, *connect.Request[api.SimplifyDebtsRequest]) (*connect.Response[api.SimplifyDebtsResponse], error)
	GetSpendingSummary(context.Context, *connect.Request[api.GetSpendingSummaryRequest]) (*connect.Response[api.GetSpendingSummaryResponse], error)
}

// NewLedgerServiceClient constructs a client for the LedgerService service.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{WithJSON()}, opts...)
	return &ledgerServiceClient{
		recordExpense:      connect.NewClient[api.RecordExpenseRequest, api.RecordExpenseResponse](httpClient, baseURL+LedgerServiceRecordExpenseProcedure, opts...),
		getExpense:         connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL+LedgerServiceGetExpenseProcedure, opts...),
		listExpenses:       connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		deleteExpense:      connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+LedgerServiceDeleteExpenseProcedure, opts...),
		recordPayment:      connect.NewClient[api.RecordPaymentRequest, api.RecordPaymentResponse](httpClient, baseURL+LedgerServiceRecordPaymentProcedure, opts...),
		listPayments:       connect.NewClient[api.ListPaymentsRequest, api.ListPaymentsResponse](httpClient, baseURL+LedgerServiceListPaymentsProcedure, opts...),
		deletePayment:      connect.NewClient[api.DeletePaymentRequest, api.DeletePaymentResponse](httpClient, baseURL+LedgerServiceDeletePaymentProcedure, opts...),
		getBalances:        connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		simplifyDebts:      connect.NewClient[api.SimplifyDebtsRequest, api.SimplifyDebtsResponse](httpClient, baseURL+LedgerServiceSimplifyDebtsProcedure, opts...),
		getSpendingSummary: connect.NewClient[api.GetSpendingSummaryRequest, api.GetSpendingSummaryResponse](httpClient, baseURL+LedgerServiceGetSpendingSummaryProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	recordExpense      *connect.Client[api.RecordExpenseRequest, api.RecordExpenseResponse]
	getExpense         *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	listExpenses       *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	deleteExpense      *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
	recordPayment      *connect.Client[api.RecordPaymentRequest, api.RecordPaymentResponse]
	listPayments       *connect.Client[api.ListPaymentsRequest, api.ListPaymentsResponse]
	deletePayment      *connect.Client[api.DeletePaymentRequest, api.DeletePaymentResponse]
	getBalances        *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	simplifyDebts      *connect.Client[api.SimplifyDebtsRequest, api.SimplifyDebtsResponse]
	getSpendingSummary *connect.Client[api.GetSpendingSummaryRequest, api.GetSpendingSummaryResponse]
}

func (c *ledgerServiceClient) RecordExpense(ctx context.Context, req *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.RecordExpenseResponse], error) {
	return c.recordExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordPayment(ctx context.Context, req *connect.Request[api.RecordPaymentRequest]) (*connect.Response[api.RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListPayments(ctx context.Context, req *connect.Request[api.ListPaymentsRequest]) (*connect.Response[api.ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) DeletePayment(ctx context.Context, req *connect.Request[api.DeletePaymentRequest]) (*connect.Response[api.DeletePaymentResponse], error) {
	return c.deletePayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SimplifyDebts(ctx context.Context, req *connect.Request[api.SimplifyDebtsRequest]) (*connect.Response[api.SimplifyDebtsResponse], error) {
	return c.simplifyDebts.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSpendingSummary(ctx context.Context, req *connect.Request[api.GetSpendingSummaryRequest]) (*connect.Response[api.GetSpendingSummaryResponse], error) {
	return c.getSpendingSummary.CallUnary(ctx, req)
}
