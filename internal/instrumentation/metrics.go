package instrumentation

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache names used as the "cache" label
const (
	CacheDashboard = "dashboard"
	CacheQuote     = "quote"
)

// Metrics contains all Prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	CacheRequests      *prometheus.CounterVec
	CacheInvalidations prometheus.Counter
	RecomputeDuration  prometheus.Histogram
	QuoteFetches       *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advisory_cache_requests_total",
			Help: "Cache lookups by cache and result (hit, miss, error)",
		}, []string{"cache", "result"}),

		CacheInvalidations: factory.NewCounter(prometheus.CounterOpts{
			Name: "advisory_dashboard_cache_invalidations_total",
			Help: "Dashboard metrics cache invalidations triggered by mutations",
		}),

		RecomputeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "advisory_dashboard_recompute_seconds",
			Help:    "Time to load the snapshot and compute the dashboard metrics",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		QuoteFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advisory_quote_fetches_total",
			Help: "Market quote lookups by provider and outcome",
		}, []string{"provider", "outcome"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advisory_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "advisory_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// RecordCacheHit counts a cache hit
func (m *Metrics) RecordCacheHit(cache string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(cache, "hit").Inc()
}

// RecordCacheMiss counts a cache miss
func (m *Metrics) RecordCacheMiss(cache string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(cache, "miss").Inc()
}

// RecordCacheError counts a failed cache operation
func (m *Metrics) RecordCacheError(cache string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(cache, "error").Inc()
}

// RecordInvalidation counts a dashboard cache invalidation
func (m *Metrics) RecordInvalidation() {
	if m == nil {
		return
	}
	m.CacheInvalidations.Inc()
}

// RecordRecompute records the duration of a dashboard recomputation
func (m *Metrics) RecordRecompute(d time.Duration) {
	if m == nil {
		return
	}
	m.RecomputeDuration.Observe(d.Seconds())
}

// RecordQuoteFetch counts a quote lookup against provider
func (m *Metrics) RecordQuoteFetch(provider, outcome string) {
	if m == nil {
		return
	}
	m.QuoteFetches.WithLabelValues(provider, outcome).Inc()
}

// RecordHTTPRequest records a served HTTP request
func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
