package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRecommendationFallback(t *testing.T) {
	before := testutil.ToFloat64(RecommendationFallbacks.WithLabelValues("genre"))
	ObserveRecommendationFallback("genre")
	after := testutil.ToFloat64(RecommendationFallbacks.WithLabelValues("genre"))

	if after != before+1 {
		t.Fatalf("fallbacks = %v, want %v", after, before+1)
	}
}

func TestObserveImported(t *testing.T) {
	before := testutil.ToFloat64(ImportedMovies)
	ObserveImported(3)
	if got := testutil.ToFloat64(ImportedMovies); got != before+3 {
		t.Fatalf("imported = %v, want %v", got, before+3)
	}
}

func TestObserveHTTPRequest(t *testing.T) {
	ObserveHTTPRequest("GET", "/api/movies", "200", 15*time.Millisecond)

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/movies", "200"))
	if got < 1 {
		t.Fatalf("requests = %v, want at least 1", got)
	}
}
