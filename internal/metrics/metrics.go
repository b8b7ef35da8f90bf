package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moviefinder_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moviefinder_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	RecommendationFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moviefinder_recommendation_fallbacks_total",
		Help: "Recommendations served from the global top list after a query failure",
	}, []string{"type"})

	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moviefinder_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"store"})

	ImportedMovies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moviefinder_imported_movies_total",
		Help: "Movies upserted by the catalog import",
	})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveRecommendationFallback counts a recommendation answered by the fallback list.
func ObserveRecommendationFallback(recType string) {
	RecommendationFallbacks.WithLabelValues(recType).Inc()
}

// ObserveRateLimited counts a rejected request. store is "redis" or "memory".
func ObserveRateLimited(store string) {
	RateLimited.WithLabelValues(store).Inc()
}

// ObserveImported adds n to the imported movie counter.
func ObserveImported(n int) {
	ImportedMovies.Add(float64(n))
}
