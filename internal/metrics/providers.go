package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Places provider metrics.
var (
	PlacesRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localmaps",
			Name:      "places_requests_total",
			Help:      "Total places provider requests by endpoint and provider status",
		},
		[]string{"endpoint", "status"},
	)

	PlacesRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "localmaps",
			Name:      "places_request_duration_seconds",
			Help:      "Places provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)
)

// Classifier metrics.
var (
	ClassifierRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localmaps",
			Name:      "classifier_requests_total",
			Help:      "Classifier calls by outcome (accepted, empty, unavailable)",
		},
		[]string{"model", "outcome"},
	)

	ClassifierRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "localmaps",
			Name:      "classifier_request_duration_seconds",
			Help:      "Classifier request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"model"},
	)

	ClassifierTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localmaps",
			Name:      "classifier_tokens_total",
			Help:      "Total classifier tokens consumed",
		},
		[]string{"model", "type"},
	)

	ClassifierBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "localmaps",
			Name:      "classifier_budget_tokens_remaining",
			Help:      "Classifier tokens left in the current period (-1 if unlimited)",
		},
		[]string{"period"}, // "daily" / "monthly"
	)

	ClassificationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localmaps",
			Name:      "classification_cache_total",
			Help:      "Classification cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// Search pipeline metrics.
var (
	SearchRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localmaps",
			Name:      "search_runs_total",
			Help:      "Search runs by classification path (filtered, fallback, skipped, error)",
		},
		[]string{"classification"},
	)

	SearchResultSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "localmaps",
			Name:      "search_result_size",
			Help:      "Number of places returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 15, 20},
		},
	)

	RateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "localmaps",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the per-client rate limiter",
		},
		[]string{"route"},
	)
)

var registerOnce sync.Once

// Register registers all collectors with the default registry. Must be called from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			PlacesRequestsTotal,
			PlacesRequestDuration,
			ClassifierRequestsTotal,
			ClassifierRequestDuration,
			ClassifierTokensTotal,
			ClassifierBudgetTokensRemaining,
			ClassificationCacheTotal,
			SearchRunsTotal,
			SearchResultSize,
			RateLimitedTotal,
		)
	})
}
