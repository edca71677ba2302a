// Package metrics registers the Prometheus instruments the service
// exposes on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service's Prometheus instruments. A single
// instance is created at startup and shared by the middleware and the
// service layer.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration *prometheus.HistogramVec
	RecordsLoaded    prometheus.Gauge
	ExportsTotal     *prometheus.CounterVec
}

// New creates the instrument set on its own registry, so tests can hold
// independent instances without duplicate-registration panics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rm4health",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path, and status.",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rm4health",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rm4health",
			Name:      "analyses_total",
			Help:      "Analyses run, by analysis type.",
		}, []string{"type"}),
		AnalysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rm4health",
			Name:      "analysis_duration_seconds",
			Help:      "Analysis computation latency by analysis type.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"type"}),
		RecordsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "rm4health",
			Name:      "records_loaded",
			Help:      "Number of records currently held in memory.",
		}),
		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rm4health",
			Name:      "exports_total",
			Help:      "Report exports, by format.",
		}, []string{"format"}),
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
