package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	Aggregations        *prometheus.CounterVec
	AggregationDuration prometheus.Histogram
	Reports             *prometheus.CounterVec
	Exports             *prometheus.CounterVec
	HTTPRequests        *prometheus.CounterVec
}

// New registers all collectors, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catering",
			Name:      "order_aggregations_total",
			Help:      "Order cost aggregations by line status and outcome.",
		}, []string{"status", "outcome"}),
		AggregationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "catering",
			Name:      "order_aggregation_duration_seconds",
			Help:      "Time spent loading and aggregating one order.",
			Buckets:   prometheus.DefBuckets,
		}),
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catering",
			Name:      "billing_reports_total",
			Help:      "Billing report queries by outcome.",
		}, []string{"outcome"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catering",
			Name:      "billing_exports_total",
			Help:      "Billing exports by format.",
		}, []string{"format"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "catering",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Aggregations,
		m.AggregationDuration,
		m.Reports,
		m.Exports,
		m.HTTPRequests,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Outcome labels a result as "ok" or "error".
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
