package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRPC(t *testing.T) {
	m := New()
	m.ObserveRPC("/xpense.v1.LedgerService/GetBalances", "ok", 10*time.Millisecond)
	m.ObserveRPC("/xpense.v1.LedgerService/GetBalances", "ok", 20*time.Millisecond)
	m.ObserveRPC("/xpense.v1.LedgerService/GetBalances", "not_found", time.Millisecond)

	if got := testutil.ToFloat64(m.rpcRequests.WithLabelValues("/xpense.v1.LedgerService/GetBalances", "ok")); got != 2 {
		t.Errorf("ok requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.rpcRequests.WithLabelValues("/xpense.v1.LedgerService/GetBalances", "not_found")); got != 1 {
		t.Errorf("not_found requests = %v, want 1", got)
	}
}

func TestObserveSimplification(t *testing.T) {
	m := New()
	m.ObserveSimplification("ok", 4, 3)
	m.ObserveSimplification("ok", 2, 1)
	m.ObserveSimplification("invalid_input", 0, 0)

	if got := testutil.ToFloat64(m.settlementsTotal); got != 4 {
		t.Errorf("settlements = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.simplifications.WithLabelValues("invalid_input")); got != 1 {
		t.Errorf("invalid_input runs = %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRPC("x", "ok", time.Second)
	m.ObserveSimplification("ok", 1, 1)
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSimplification("ok", 3, 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "xpense_settlements_total 2") {
		t.Errorf("exposition missing settlements counter:\n%s", body)
	}
}
