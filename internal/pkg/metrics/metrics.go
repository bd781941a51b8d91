// Package metrics holds the storefront's Prometheus collectors. Each
// Metrics owns its registry so tests can build as many as they like.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cart sync outcomes
const (
	SyncEmpty   = "empty"
	SyncMerged  = "merged"
	SyncPartial = "partial"
	SyncFailed  = "failed"
)

// Search outcomes
const (
	SearchFired = "fired"
	SearchStale = "stale"
	SearchError = "error"
)

// Metrics is the set of collectors exported on /metrics
type Metrics struct {
	registry *prometheus.Registry

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	cartSyncs      *prometheus.CounterVec
	syncedEntries  prometheus.Counter
	searches       *prometheus.CounterVec
	sseClients     prometheus.Gauge
}

// New creates and registers the storefront collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qkart_http_requests_total",
				Help: "Total number of HTTP requests served by the storefront",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "qkart_http_request_duration_seconds",
				Help:    "Duration of storefront HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		cartSyncs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qkart_cart_syncs_total",
				Help: "Guest cart merges run at login, by outcome",
			},
			[]string{"outcome"},
		),
		syncedEntries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "qkart_cart_sync_entries_total",
				Help: "Guest cart entries upserted into backend carts",
			},
		),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "qkart_search_queries_total",
				Help: "Debounced searches, by outcome",
			},
			[]string{"outcome"},
		),
		sseClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "qkart_search_stream_clients",
				Help: "Open search result streams",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestCounter,
		m.requestLatency,
		m.cartSyncs,
		m.syncedEntries,
		m.searches,
		m.sseClients,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one served request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.requestCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordSync records one login-time cart merge
func (m *Metrics) RecordSync(outcome string, applied int) {
	m.cartSyncs.WithLabelValues(outcome).Inc()
	m.syncedEntries.Add(float64(applied))
}

// RecordSearch records one debounced search outcome
func (m *Metrics) RecordSearch(outcome string) {
	m.searches.WithLabelValues(outcome).Inc()
}

// StreamOpened marks a search stream as open
func (m *Metrics) StreamOpened() { m.sseClients.Inc() }

// StreamClosed marks a search stream as closed
func (m *Metrics) StreamClosed() { m.sseClients.Dec() }
