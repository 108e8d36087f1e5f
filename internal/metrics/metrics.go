// Package metrics exposes Prometheus collectors for the RPC layer and the
// debt calculator.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors, registered on a private registry so tests can
// create as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec

	simplifications  *prometheus.CounterVec
	settlementsTotal prometheus.Counter
	participants     prometheus.Histogram
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xpense",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "xpense",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		simplifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xpense",
			Name:      "simplifications_total",
			Help:      "Debt simplification runs by outcome.",
		}, []string{"outcome"}),
		settlementsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "xpense",
			Name:      "settlements_total",
			Help:      "Settlements produced by successful simplifications.",
		}),
		participants: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "xpense",
			Name:      "simplification_participants",
			Help:      "Users with a non-zero balance per simplification.",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 12),
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcRequests,
		m.rpcDuration,
		m.simplifications,
		m.settlementsTotal,
		m.participants,
	)
	return m
}

// ObserveRPC records one finished RPC.
func (m *Metrics) ObserveRPC(procedure, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(procedure, code).Inc()
	m.rpcDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

// ObserveSimplification records a simplification run. outcome is "ok" or an
// error class such as "invalid_input".
func (m *Metrics) ObserveSimplification(outcome string, participants, settlements int) {
	if m == nil {
		return
	}
	m.simplifications.WithLabelValues(outcome).Inc()
	if outcome != "ok" {
		return
	}
	m.participants.Observe(float64(participants))
	m.settlementsTotal.Add(float64(settlements))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
