// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

/*
Package models defines data structures for the Forumlens application.

This package contains the forum post record, query parameter objects, the typed
results of every analytical query, and the HTTP response envelope. It serves as
the single source of truth for data structure definitions shared by the
database, analytics and api packages.

Key Components:

  - ForumPost: One scraped Reddit or Hacker News post (immutable once loaded)
  - PostFilters: Conjunctive filter, sort and pagination parameters for post listings
  - DatabaseSummary, PlatformStats, TimeSeriesData, HeatmapCell, AuthorStats,
    SourceStats, SearchResult, EngagementMetrics: derived read-only aggregates
  - APIResponse: Standard response wrapper

Derived aggregates have no identity of their own. They are recomputed from the
loaded snapshot on every cache miss and must never be mutated after they are
returned, because the analytics cache hands out the same value to every caller
until it expires or the snapshot changes.

JSON Serialization:

All models use snake_case JSON tags. Nullable columns (author, url, content)
are pointers and serialize as null.
*/
package models
