// Package metrics provides the centralized Prometheus registry for the
// evaluation pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lagcast",
		Name:      "runs_total",
		Help:      "Total number of evaluation runs by model and status",
	}, []string{"model", "status"})
	FoldsEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lagcast",
		Name:      "folds_evaluated_total",
		Help:      "Total number of walk-forward folds evaluated",
	})
	DegenerateFoldsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lagcast",
		Name:      "degenerate_folds_total",
		Help:      "Total number of single-class test folds encountered",
	})
	RowsParsedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lagcast",
		Name:      "rows_parsed_total",
		Help:      "Total number of price rows parsed from input tables",
	})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lagcast",
		Name:      "run_duration_seconds",
		Help:      "End-to-end duration of evaluation runs",
		Buckets:   prometheus.DefBuckets,
	})
)

// Registry returns the shared registry, registering all collectors on first
// use.
func Registry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			RunsTotal,
			FoldsEvaluatedTotal,
			DegenerateFoldsTotal,
			RowsParsedTotal,
			RunDuration,
		)
	})
	return registry
}

// Handler returns an HTTP handler exposing the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}

// RecordRun records a completed evaluation run.
// status should be "success" or "failure".
func RecordRun(model, status string) {
	RunsTotal.WithLabelValues(model, status).Inc()
}
