// Package metrics holds the Prometheus collectors for the ledger.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// Mutations counts store mutations by store, operation and outcome.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizops_mutations_total",
		Help: "Store mutations by store, operation and outcome.",
	}, []string{"store", "operation", "outcome"})

	PersistFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizops_persist_failures_total",
		Help: "Snapshot saves that failed after the in-memory change was applied.",
	}, []string{"store"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizops_events_published_total",
		Help: "Domain events handed to the publisher, by type and outcome.",
	}, []string{"type", "outcome"})

	WalletBalance = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bizops_wallet_balance_cents",
		Help: "Current wallet balance in cents.",
	}, []string{"wallet"})

	AggregateCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizops_aggregate_cache_total",
		Help: "Aggregation cache lookups by result (hit or miss).",
	}, []string{"result"})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizops_exports_total",
		Help: "Report exports by outcome.",
	}, []string{"outcome"})

	ExportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bizops_export_duration_seconds",
		Help:    "Time spent writing the report to the external sheet.",
		Buckets: prometheus.DefBuckets,
	})

	ExportRows = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bizops_export_rows",
		Help: "Rows written by the last successful export.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
