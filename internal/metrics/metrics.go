// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the console's collectors behind one registry.
type Metrics struct {
	Registry        *prometheus.Registry
	BackendRequests *prometheus.CounterVec
	BackendLatency  *prometheus.HistogramVec
	PageRequests    *prometheus.CounterVec
	SessionsPurged  prometheus.Counter
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pharmacy",
			Name:      "backend_requests_total",
			Help:      "Requests sent to the pharmacy backend.",
		}, []string{"resource", "method", "outcome"}),
		BackendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pharmacy",
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of pharmacy backend requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource", "method"}),
		PageRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pharmacy",
			Name:      "console_requests_total",
			Help:      "Requests served by the console.",
		}, []string{"route", "status"}),
		SessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pharmacy",
			Name:      "sessions_purged_total",
			Help:      "Expired sessions removed by the purge job.",
		}),
	}
	m.Registry.MustRegister(
		m.BackendRequests,
		m.BackendLatency,
		m.PageRequests,
		m.SessionsPurged,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveBackend records one backend round trip. A nil receiver is a no-op.
func (m *Metrics) ObserveBackend(resource, method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.BackendRequests.WithLabelValues(resource, method, outcome).Inc()
	m.BackendLatency.WithLabelValues(resource, method).Observe(d.Seconds())
}

// ObservePage records one console response.
func (m *Metrics) ObservePage(route string, status int) {
	if m == nil {
		return
	}
	m.PageRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Purged adds n purged sessions.
func (m *Metrics) Purged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.SessionsPurged.Add(float64(n))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
