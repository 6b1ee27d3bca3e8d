// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Query Metrics
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forumlens_query_duration_seconds",
			Help:    "Duration of snapshot queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query", "engine"},
	)

	QueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forumlens_query_errors_total",
			Help: "Total number of failed snapshot queries",
		},
		[]string{"query"},
	)

	// Snapshot Metrics
	SnapshotLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forumlens_snapshot_loads_total",
			Help: "Total number of snapshot load attempts by result",
		},
		[]string{"result"}, // "success", "fetch", "format", "open", "schema", "superseded", "unchanged"
	)

	SnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forumlens_snapshot_load_duration_seconds",
			Help:    "Duration of successful snapshot loads in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	SnapshotSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forumlens_snapshot_size_bytes",
			Help: "Size of the currently loaded snapshot in bytes (0 when closed)",
		},
	)

	SnapshotDataVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forumlens_snapshot_data_version",
			Help: "Data version of the loaded snapshot (increments on every load and close)",
		},
	)

	// Query Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forumlens_cache_hits_total",
			Help: "Total number of query cache hits",
		},
		[]string{"query"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forumlens_cache_misses_total",
			Help: "Total number of query cache misses",
		},
		[]string{"query"},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forumlens_cache_entries",
			Help: "Current number of query cache entries",
		},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forumlens_cache_invalidations_total",
			Help: "Total number of bulk cache invalidations",
		},
		[]string{"reason"}, // "data_change", "manual"
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "forumlens_cache_expired_evictions_total",
			Help: "Total number of expired entries pruned by the cache janitor",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forumlens_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forumlens_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "forumlens_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "forumlens_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forumlens_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "forumlens_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordQuery records the duration of a snapshot query and counts failures.
func RecordQuery(query, engine string, duration time.Duration, err error) {
	QueryDuration.WithLabelValues(query, engine).Observe(duration.Seconds())
	if err != nil {
		QueryErrors.WithLabelValues(query).Inc()
	}
}

// RecordSnapshotLoad records the outcome of a load. Duration is only observed on success.
func RecordSnapshotLoad(result string, duration time.Duration) {
	SnapshotLoads.WithLabelValues(result).Inc()
	if result == "success" {
		SnapshotLoadDuration.Observe(duration.Seconds())
	}
}

// RecordCacheLookup records a query cache hit or miss.
func RecordCacheLookup(query string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(query).Inc()
	} else {
		CacheMisses.WithLabelValues(query).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
