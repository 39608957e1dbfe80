// Package metrics exposes Prometheus collectors for the replenishment pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's Prometheus collectors
type Metrics struct {
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram
	AnomaliesTotal *prometheus.CounterVec
	OrderLines     prometheus.Counter
}

// New registers the pipeline collectors on the given registerer
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procurement",
			Subsystem: "replenishment",
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome (completed, failed).",
		}, []string{"outcome"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "procurement",
			Subsystem: "replenishment",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of a pipeline run.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		AnomaliesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procurement",
			Subsystem: "replenishment",
			Name:      "anomalies_total",
			Help:      "Anomalies recorded during runs, by stage and severity.",
		}, []string{"stage", "severity"}),
		OrderLines: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "procurement",
			Subsystem: "replenishment",
			Name:      "order_lines_total",
			Help:      "Supplier order lines emitted across all runs.",
		}),
	}
}

// NewDefault registers the collectors on the default Prometheus registry
func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}
