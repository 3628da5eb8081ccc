// Package metrics provides Prometheus metrics collection for the scorehub service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// UpstreamAttemptsTotal tracks individual upstream fetch attempts by league and outcome.
	UpstreamAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_attempts_total",
			Help: "Total number of upstream fetch attempts",
		},
		[]string{"league", "outcome"},
	)

	// UpstreamFetchDuration tracks end-to-end resource fetch duration, retries included.
	UpstreamFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_fetch_duration_seconds",
			Help:    "End-to-end upstream fetch duration in seconds, including retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 120.0},
		},
		[]string{"league", "resource"},
	)

	// StaleFallbacksTotal counts responses served from the stale cache tier.
	StaleFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stale_fallbacks_total",
			Help: "Total number of responses served from stale cache after an upstream failure",
		},
		[]string{"league", "resource"},
	)

	// CircuitBreakerState tracks circuit breaker state per league (0=closed, 1=open, 2=half-open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"league"},
	)

	// CacheOperationsTotal tracks cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSizeBytes tracks current cache size in bytes per league.
	CacheSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_size_bytes",
			Help: "Current cache size in bytes",
		},
		[]string{"league"},
	)

	// InflightRequests tracks currently outstanding upstream calls per league.
	InflightRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inflight_upstream_requests",
			Help: "Number of currently outstanding upstream calls",
		},
		[]string{"league"},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordUpstreamAttempt records a single upstream fetch attempt.
func RecordUpstreamAttempt(league, outcome string) {
	UpstreamAttemptsTotal.WithLabelValues(league, outcome).Inc()
}

// RecordFetch records an end-to-end resource fetch, retries included.
func RecordFetch(league, resource string, duration time.Duration) {
	UpstreamFetchDuration.WithLabelValues(league, resource).Observe(duration.Seconds())
}

// RecordStaleFallback records a response served from the stale cache tier.
func RecordStaleFallback(league, resource string) {
	StaleFallbacksTotal.WithLabelValues(league, resource).Inc()
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// SetCircuitBreakerState updates the circuit breaker state gauge.
func SetCircuitBreakerState(league string, state int) {
	CircuitBreakerState.WithLabelValues(league).Set(float64(state))
}

// SetCacheSize updates the cache size gauge for a league.
func SetCacheSize(league string, sizeBytes int64) {
	CacheSizeBytes.WithLabelValues(league).Set(float64(sizeBytes))
}

// SetInflight updates the in-flight upstream request gauge for a league.
func SetInflight(league string, count int) {
	InflightRequests.WithLabelValues(league).Set(float64(count))
}
