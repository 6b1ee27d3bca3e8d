// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package analytics

import (
	"time"

	"github.com/tomtom215/forumlens/internal/logging"
	"github.com/tomtom215/forumlens/internal/metrics"
)

// QueryFunc computes a result on a cache miss.
type QueryFunc[T any] func() (T, error)

// versioned tags a cached result with the data version it was computed from.
type versioned[T any] struct {
	version int64
	value   T
}

// GetCachedOrQuery returns the value cached under key, or runs fn and caches
// its result for ttl.
//
// A hit returns the stored value itself, not a copy; callers must not mutate it.
// The second return value reports whether the result came from the cache.
//
// Rules:
//   - Errors from fn are returned and never cached.
//   - A cached value of the wrong type is treated as a miss and overwritten.
//   - Entries carry the data version they were computed from, and an entry
//     from any other version is a miss. A store that lands after a load or
//     close already cleared the cache can therefore never be served.
//   - A result is stored only if the data version did not change while fn ran.
//
// kind labels the hit/miss metrics (for example "summary" or "search").
func GetCachedOrQuery[T any](s *Service, kind, key string, ttl time.Duration, fn QueryFunc[T]) (T, bool, error) {
	version := s.db.DataVersion()
	if cached, ok := s.cache.Get(key); ok {
		entry, ok := cached.(versioned[T])
		switch {
		case !ok:
			logging.Warn().Str("key", key).Msg("Cached value has unexpected type, recomputing")
		case entry.version == version:
			metrics.RecordCacheLookup(kind, true)
			return entry.value, true, nil
		default:
			logging.Debug().Str("key", key).Int64("entry_version", entry.version).
				Int64("data_version", version).Msg("Cached value is from a replaced snapshot")
		}
	}
	metrics.RecordCacheLookup(kind, false)

	value, err := fn()
	if err != nil {
		var zero T
		return zero, false, err
	}

	if s.db.DataVersion() == version {
		s.cache.SetWithTTL(key, versioned[T]{version: version, value: value}, ttl)
		metrics.CacheEntries.Set(float64(s.cache.Len()))
	}
	return value, false, nil
}
