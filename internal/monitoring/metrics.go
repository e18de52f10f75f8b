package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	PageCacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_cache_requests_total",
			Help: "Page cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	PageCacheInvalidations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_cache_invalidations_total",
			Help: "Number of page cache clears caused by post mutations",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		ActiveConnections,
		PageCacheRequests,
		PageCacheInvalidations,
	)
}
