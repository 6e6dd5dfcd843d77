// Package observability exposes Prometheus metrics for the allocation
// ledger, the aggregate store, and persistence. Metrics are registered on
// the default registry and served off /metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// LedgerMutations counts committed ledger mutations by operation.
var LedgerMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "avr",
	Subsystem: "ledger",
	Name:      "mutations_total",
	Help:      "Total committed allocation ledger mutations by operation.",
}, []string{"op"})

// LedgerRejections counts rejected ledger mutations by reason.
var LedgerRejections = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "avr",
	Subsystem: "ledger",
	Name:      "rejections_total",
	Help:      "Total rejected allocation ledger mutations by reason.",
}, []string{"reason"})

// ─── Store Metrics ──────────────────────────────────────────────────────────

// StoreMutations counts committed structural and field mutations by operation.
var StoreMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "avr",
	Subsystem: "store",
	Name:      "mutations_total",
	Help:      "Total committed store mutations by operation.",
}, []string{"op"})

// StoreParties tracks the current number of parties.
var StoreParties = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "avr",
	Subsystem: "store",
	Name:      "parties",
	Help:      "Current number of parties in the snapshot.",
})

// StoreItems tracks the current number of items across all parties.
var StoreItems = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "avr",
	Subsystem: "store",
	Name:      "items",
	Help:      "Current number of items across all parties.",
})

// ─── Persistence Metrics ────────────────────────────────────────────────────

// SaveOutcomes counts explicit saves by outcome.
var SaveOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "avr",
	Subsystem: "persist",
	Name:      "saves_total",
	Help:      "Total explicit save operations by outcome.",
}, []string{"outcome"})

// SaveDuration observes how long a full save takes.
var SaveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "avr",
	Subsystem: "persist",
	Name:      "save_duration_seconds",
	Help:      "Duration of a full snapshot save.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
})

// RejectionReason maps a ledger error to its metric label.
func RejectionReason(err error) string {
	switch {
	case err == nil:
		return "none"
	default:
		return classify(err)
	}
}
