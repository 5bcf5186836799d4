// Package metrics exposes pipeline counters over Prometheus and a small
// HTTP surface for health and scraping.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "freightwatch"

// Registry owns every collector the pipeline records into. Each instance
// wraps its own prometheus registry so tests and scheduled runs never
// collide on duplicate registration.
type Registry struct {
	registry *prometheus.Registry

	OrdersIngested   prometheus.Counter
	RateCardEntries  prometheus.Counter
	UnmatchedOrders  prometheus.Counter
	ExceptionsQueued prometheus.Gauge
	OrdersByRiskBand *prometheus.GaugeVec
	RunDuration      prometheus.Histogram
	RunsCompleted    prometheus.Counter
	RunsFailed       prometheus.Counter
	LastRunUnixTime  prometheus.Gauge
}

// NewRegistry creates and registers the full collector set.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		OrdersIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_ingested_total",
			Help:      "Orders read from the input snapshot across all runs.",
		}),
		RateCardEntries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_card_entries_total",
			Help:      "Rate card rows read across all runs.",
		}),
		UnmatchedOrders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unmatched_orders_total",
			Help:      "Orders with no in-band rate card match across all runs.",
		}),
		ExceptionsQueued: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "exceptions_queued",
			Help:      "Exception queue depth after the latest run.",
		}),
		OrdersByRiskBand: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "orders_by_risk_band",
			Help:      "Scored orders per risk band after the latest run.",
		}, []string{"band"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "End-to-end pipeline run duration.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		RunsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_completed_total",
			Help:      "Pipeline runs that finished and wrote a manifest.",
		}),
		RunsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_failed_total",
			Help:      "Pipeline runs aborted by a structural input error.",
		}),
		LastRunUnixTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_unix_time",
			Help:      "Unix timestamp of the latest completed run.",
		}),
	}

	r.registry.MustRegister(
		r.OrdersIngested,
		r.RateCardEntries,
		r.UnmatchedOrders,
		r.ExceptionsQueued,
		r.OrdersByRiskBand,
		r.RunDuration,
		r.RunsCompleted,
		r.RunsFailed,
		r.LastRunUnixTime,
	)
	return r
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}
