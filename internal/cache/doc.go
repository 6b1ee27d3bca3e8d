// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

/*
Package cache provides a thread-safe in-memory key/value store with per-entry TTL.

It backs the analytics query cache: every query result is stored under a
deterministic key and served until its TTL runs out or the underlying snapshot
changes.

# Overview

The cache provides:
  - Thread-safe concurrent access (sync.RWMutex)
  - Per-entry time-to-live, checked lazily on Get
  - Bulk invalidation with Clear
  - Hit, miss and eviction statistics
  - A pluggable Clock so tests can move time without sleeping

An entry is fresh while now - CreatedAt < TTL. A stale entry is never returned.

# Usage Example

	c := cache.New(5 * time.Minute)

	c.Set("summary", summary)
	c.SetWithTTL("search_\"rust\"_50", results, time.Minute)

	if value, ok := c.Get("summary"); ok {
	    summary := value.(*models.DatabaseSummary)
	    // Use cached summary
	}

	// Drop everything after a snapshot reload
	c.Clear()

# Testing With a Manual Clock

	clock := cache.NewManualClock(time.Unix(0, 0))
	c := cache.New(time.Minute, cache.WithClock(clock))
	c.Set("k", 1)
	clock.Advance(2 * time.Minute)
	_, ok := c.Get("k") // ok == false

# Background Cleanup

Get only drops the entry it was asked for. A Janitor runs Cleanup on an
interval so keys that are never read again do not accumulate. Janitor is a
suture.Service and is started by the server's supervisor tree.

# Cache Keys

GenerateKey hashes JSON-encoded parameters with SHA-256:

	key := cache.GenerateKey("posts", filters) // "posts_<32 hex chars>"

# Thread Safety

All methods are safe for concurrent use. Values are returned by reference and
must be treated as read-only by callers.
*/
package cache
