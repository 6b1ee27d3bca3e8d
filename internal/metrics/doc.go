// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

/*
Package metrics defines the Prometheus instrumentation for Forumlens.

All collectors are registered on the default registry through promauto and are
exposed by the HTTP server at /metrics.

# Metric Families

  - forumlens_query_*: per-query latency and error counts, labeled by query kind
  - forumlens_snapshot_*: load attempts by result, load latency, size and data version
  - forumlens_cache_*: query cache hits and misses by query kind, entry count,
    bulk invalidations and janitor evictions
  - forumlens_api_*: request counts, latency and in-flight requests
  - forumlens_circuit_breaker_*: state of the snapshot fetch circuit breaker

# Usage

	start := time.Now()
	posts, err := queryPosts(ctx)
	metrics.RecordQuery("posts", "sqlite", time.Since(start), err)

	metrics.RecordCacheLookup("summary", true)
*/
package metrics
