// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cinegraph"

var (
	// CatalogFetchesTotal tracks outbound catalog requests.
	// Labels:
	//   - host: primary, fallback
	//   - outcome: ok, not_found, error
	CatalogFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_fetches_total",
			Help:      "Total number of outbound catalog fetch attempts",
		},
		[]string{"host", "outcome"},
	)

	// CatalogInFlight tracks requests currently holding an admission slot.
	// Its peak must never exceed the configured cap.
	CatalogInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_in_flight_requests",
			Help:      "Catalog requests currently in flight",
		},
	)

	// CacheOperationsTotal tracks response cache operations.
	// Labels:
	//   - operation: get, set
	//   - status: hit, miss, success, error
	//   - backend: redis, memory
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of response cache operations",
		},
		[]string{"operation", "status", "backend"},
	)

	// SingleflightRequestsTotal tracks singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)

	// RecommendationRunsTotal counts Recommend calls by outcome.
	// Labels:
	//   - outcome: ok, empty
	RecommendationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendation_runs_total",
			Help:      "Total number of recommendation computations",
		},
		[]string{"outcome"},
	)

	// RecommendationCandidates observes how many candidates survived
	// scoring before the top-N cut.
	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recommendation_candidates",
			Help:      "Candidate count per recommendation run before truncation",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	// DBQueriesTotal tracks database queries.
	// Labels:
	//   - query_type: select, insert, delete
	//   - table: user_ratings
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)
)

// Fetch host constants.
const (
	HostPrimary  = "primary"
	HostFallback = "fallback"
)

// Fetch outcome constants.
const (
	FetchOutcomeOK       = "ok"
	FetchOutcomeNotFound = "not_found"
	FetchOutcomeError    = "error"
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet = "get"
	CacheOpSet = "set"
)

// Cache backend constants.
const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)

// Recommendation outcome constants.
const (
	RecommendationOK    = "ok"
	RecommendationEmpty = "empty"
)

// DB query type constants.
const (
	DBQuerySelect = "select"
	DBQueryInsert = "insert"
	DBQueryDelete = "delete"
)

// Table name constants.
const (
	TableUserRatings = "user_ratings"
)
