package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the feed service.
type Metrics struct {
	// Feed metrics
	FeedRequestsTotal  prometheus.CounterVec
	FeedItemsRanked    prometheus.HistogramVec
	FeedRefreshesTotal prometheus.Counter

	// Interaction metrics
	CommitsTotal   prometheus.CounterVec
	RollbacksTotal prometheus.CounterVec
	AutoViewsTotal prometheus.Counter

	// Cache metrics
	AuthorCacheHitsTotal   prometheus.Counter
	AuthorCacheMissesTotal prometheus.Counter
	FeedPageCacheHitsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics.
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			FeedRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_requests_total",
					Help: "Total number of ranked feed requests",
				},
				[]string{"sort_mode"},
			),
			FeedItemsRanked: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_items_ranked",
					Help:    "Number of items ranked per feed request",
					Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
				},
				[]string{"sort_mode"},
			),
			FeedRefreshesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "feed_refreshes_total",
					Help: "Total number of full feed reloads",
				},
			),
			CommitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_interaction_commits_total",
					Help: "Total interaction commits by operation and outcome",
				},
				[]string{"operation", "outcome"},
			),
			RollbacksTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_interaction_rollbacks_total",
					Help: "Total optimistic mutations rolled back after a failed commit",
				},
				[]string{"operation"},
			),
			AutoViewsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "feed_auto_views_total",
					Help: "Total view events fired by visibility detection",
				},
			),
			AuthorCacheHitsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "feed_author_cache_hits_total",
					Help: "Author data lookups served from the cache",
				},
			),
			AuthorCacheMissesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "feed_author_cache_misses_total",
					Help: "Author data lookups that triggered a repository fetch",
				},
			),
			FeedPageCacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "feed_page_cache_hits_total",
					Help: "Feed page cache lookups by result",
				},
				[]string{"result"},
			),
		}
	})
	return instance
}
