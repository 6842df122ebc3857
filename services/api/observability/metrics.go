package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aquavision"

// Metrics holds the Prometheus collectors for the API.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec   // labels: method, route, status
	HTTPRequestDuration *prometheus.HistogramVec // labels: method, route
	WellsEstimated      prometheus.Counter
	SeriesPoints        *prometheus.CounterVec // labels: mode={well,district}
	ExportRequests      *prometheus.CounterVec // labels: outcome={accepted,invalid,rate_limited,mail_error,not_found}
	ExportDownloads     *prometheus.CounterVec // labels: outcome={ok,not_found,expired,empty}
	ExportTokensActive  prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		WellsEstimated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wells_estimated_total",
			Help:      "Total single-date well depth estimates computed.",
		}),
		SeriesPoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "series_points_total",
			Help:      "Time series points generated by mode.",
		}, []string{"mode"}),
		ExportRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_requests_total",
			Help:      "Export requests by outcome.",
		}, []string{"outcome"}),
		ExportDownloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_downloads_total",
			Help:      "Export downloads by outcome.",
		}, []string{"outcome"}),
		ExportTokensActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "export_tokens_active",
			Help:      "Export download tokens currently held in memory.",
		}),
	}
}

// NewMetrics creates and registers all API metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.HTTPRequests,
		m.HTTPRequestDuration,
		m.WellsEstimated,
		m.SeriesPoints,
		m.ExportRequests,
		m.ExportDownloads,
		m.ExportTokensActive,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
