// Package metrics exposes Prometheus instrumentation for the HTTP API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors recorded by the HTTP middleware.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total HTTP requests processed, by method, path and status.",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency distribution.",
			ConstLabels: prometheus.Labels{"service": serviceName},
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being served.",
			ConstLabels: prometheus.Labels{"service": serviceName},
		}),
	}

	registry.MustRegister(m.requestsTotal, m.requestDuration, m.inFlight)
	return m
}

// RecordHTTPRequest records one completed request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, status).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncrementInFlight marks a request as started.
func (m *Metrics) IncrementInFlight() { m.inFlight.Inc() }

// DecrementInFlight marks a request as finished.
func (m *Metrics) DecrementInFlight() { m.inFlight.Dec() }

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
