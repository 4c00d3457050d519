package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Downstream call outcomes used as the "outcome" label.
const (
	OutcomeSuccess = "success"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Downstream metrics
	DownstreamCalls    *prometheus.CounterVec
	DownstreamDuration *prometheus.HistogramVec

	// Tracing metrics
	ExportErrors prometheus.Counter

	startTime time.Time
}

// NewMetrics creates a metrics collector backed by its own registry, so
// several servers can live in one process (tests chain two of them).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pingchain_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pingchain_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pingchain_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Downstream metrics
		DownstreamCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pingchain_downstream_calls_total",
				Help: "Total number of calls to the next service by outcome",
			},
			[]string{"outcome"},
		),
		DownstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pingchain_downstream_duration_seconds",
				Help:    "Next service call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"outcome"},
		),

		// Tracing metrics
		ExportErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "pingchain_trace_export_errors_total",
				Help: "Errors reported by the span exporter",
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "pingchain_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// RecordDownstreamCall records one call to the next service.
func (m *Metrics) RecordDownstreamCall(outcome string, duration time.Duration) {
	m.DownstreamCalls.WithLabelValues(outcome).Inc()
	m.DownstreamDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordExportError counts an error reported by the span exporter.
func (m *Metrics) RecordExportError(error) {
	m.ExportErrors.Inc()
}
