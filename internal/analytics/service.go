// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/forumlens/internal/cache"
	"github.com/tomtom215/forumlens/internal/database"
	"github.com/tomtom215/forumlens/internal/logging"
	"github.com/tomtom215/forumlens/internal/metrics"
	"github.com/tomtom215/forumlens/internal/models"
)

// Default cache lifetimes.
const (
	DefaultTTL       = 5 * time.Minute
	DefaultSearchTTL = time.Minute
)

// Config sets the cache lifetimes per query kind. Zero values use the defaults.
type Config struct {
	DefaultTTL time.Duration
	SearchTTL  time.Duration
}

// Service answers analytics queries through a TTL cache in front of the
// database handle. The cache is cleared whenever the handle loads or closes
// a snapshot.
type Service struct {
	db    *database.DB
	cache *cache.Cache
	ttl   time.Duration
	sttl  time.Duration
}

// NewService wires db and c together and registers for data-change
// notifications. A nil cache gets a fresh one with the default TTL.
func NewService(db *database.DB, c *cache.Cache, cfg Config) *Service {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.SearchTTL <= 0 {
		cfg.SearchTTL = DefaultSearchTTL
	}
	if c == nil {
		c = cache.New(cfg.DefaultTTL)
	}

	s := &Service{db: db, cache: c, ttl: cfg.DefaultTTL, sttl: cfg.SearchTTL}
	db.OnDataChange(func(version int64) {
		removed := s.invalidate("data_change")
		logging.Debug().Int64("data_version", version).Int("removed", removed).
			Msg("Cleared analytics cache after data change")
	})
	return s
}

// DB returns the underlying handle for lifecycle operations.
func (s *Service) DB() *database.DB {
	return s.db
}

// ClearCache drops every cached result and returns how many were removed.
func (s *Service) ClearCache() int {
	return s.invalidate("manual")
}

func (s *Service) invalidate(reason string) int {
	removed := s.cache.Clear()
	metrics.CacheInvalidations.WithLabelValues(reason).Inc()
	metrics.CacheEntries.Set(0)
	return removed
}

// CacheStats reports cache effectiveness.
func (s *Service) CacheStats() models.CacheStatsResponse {
	stats := s.cache.GetStats()
	return models.CacheStatsResponse{
		Hits:        stats.Hits,
		Misses:      stats.Misses,
		Evictions:   stats.Evictions,
		TotalKeys:   int64(s.cache.Len()),
		HitRate:     s.cache.HitRate(),
		LastCleanup: stats.LastCleanup,
	}
}

// Janitor returns a supervisor service that prunes expired results every interval.
func (s *Service) Janitor(interval time.Duration) *cache.Janitor {
	return cache.NewJanitor(s.cache, interval, func(removed int) {
		metrics.CacheEvictions.Add(float64(removed))
		metrics.CacheEntries.Set(float64(s.cache.Len()))
	})
}

// Summary returns dataset-wide totals.
func (s *Service) Summary(ctx context.Context) (*models.DatabaseSummary, bool, error) {
	return GetCachedOrQuery(s, "summary", "summary", s.ttl, func() (*models.DatabaseSummary, error) {
		return s.db.GetDatabaseSummary(ctx)
	})
}

// Posts returns one page of posts matching filters together with the total
// match count. The page and the count are cached separately so that paging
// through a result set reuses the count.
func (s *Service) Posts(ctx context.Context, filters models.PostFilters) (*models.PostsResponse, bool, error) {
	posts, postsCached, err := GetCachedOrQuery(s, "posts", cache.GenerateKey("posts", filters), s.ttl,
		func() ([]models.ForumPost, error) {
			return s.db.GetPosts(ctx, filters)
		})
	if err != nil {
		return nil, false, err
	}

	countKey := cache.GenerateKey("postsCount", countFilters(filters))
	total, countCached, err := GetCachedOrQuery(s, "posts_count", countKey, s.ttl, func() (int64, error) {
		return s.db.CountPosts(ctx, filters)
	})
	if err != nil {
		return nil, false, err
	}

	return &models.PostsResponse{
		Posts:      posts,
		TotalCount: total,
		Limit:      filters.Limit,
		Offset:     filters.Offset,
	}, postsCached && countCached, nil
}

// countFilters strips the fields that do not affect the match count.
func countFilters(f models.PostFilters) models.PostFilters {
	f.SortBy = ""
	f.SortOrder = ""
	f.Limit = nil
	f.Offset = 0
	return f
}

// Post returns a single post by id. Single-row lookups are not cached.
func (s *Service) Post(ctx context.Context, id string) (*models.ForumPost, error) {
	return s.db.GetPostByID(ctx, id)
}

// TimeSeries returns daily post counts over the trailing window.
func (s *Service) TimeSeries(ctx context.Context, days int) ([]models.TimeSeriesData, bool, error) {
	key := fmt.Sprintf("timeSeries_%d", days)
	return GetCachedOrQuery(s, "time_series", key, s.ttl, func() ([]models.TimeSeriesData, error) {
		return s.db.GetPostsTimeSeries(ctx, days)
	})
}

// Heatmap returns the day-of-week by hour activity grid.
func (s *Service) Heatmap(ctx context.Context, days, minPosts int) ([]models.HeatmapCell, bool, error) {
	key := fmt.Sprintf("heatmap_%d_%d", days, minPosts)
	return GetCachedOrQuery(s, "heatmap", key, s.ttl, func() ([]models.HeatmapCell, error) {
		return s.db.GetPostingHeatmap(ctx, days, minPosts)
	})
}

// TopAuthors returns the most active authors.
func (s *Service) TopAuthors(ctx context.Context, limit int) ([]models.AuthorStats, bool, error) {
	key := fmt.Sprintf("topAuthors_%d", limit)
	return GetCachedOrQuery(s, "top_authors", key, s.ttl, func() ([]models.AuthorStats, error) {
		return s.db.GetTopAuthors(ctx, limit)
	})
}

// TopSources returns the most active sources.
func (s *Service) TopSources(ctx context.Context, limit int) ([]models.SourceStats, bool, error) {
	key := fmt.Sprintf("topSources_%d", limit)
	return GetCachedOrQuery(s, "top_sources", key, s.ttl, func() ([]models.SourceStats, error) {
		return s.db.GetTopSources(ctx, limit)
	})
}

// PlatformComparison returns per-platform totals.
func (s *Service) PlatformComparison(ctx context.Context) ([]models.PlatformStats, bool, error) {
	return GetCachedOrQuery(s, "platform_comparison", "platformComparison", s.ttl, func() ([]models.PlatformStats, error) {
		return s.db.GetPlatformComparison(ctx)
	})
}

// Search runs a title search. Results use the shorter search TTL. Queries that
// normalize to the same string share a cache entry.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]models.SearchResult, bool, error) {
	key := fmt.Sprintf("search_%q_%d", database.NormalizeSearchQuery(query), limit)
	return GetCachedOrQuery(s, "search", key, s.sttl, func() ([]models.SearchResult, error) {
		return s.db.SearchPosts(ctx, query, limit)
	})
}

// Engagement returns engagement totals over the trailing window.
func (s *Service) Engagement(ctx context.Context, days int) (*models.EngagementMetrics, bool, error) {
	key := fmt.Sprintf("engagement_%d", days)
	return GetCachedOrQuery(s, "engagement", key, s.ttl, func() (*models.EngagementMetrics, error) {
		return s.db.GetEngagementMetrics(ctx, days)
	})
}

// CompareEngagement compares the trailing window with the one before it.
func (s *Service) CompareEngagement(ctx context.Context, days int) (*models.EngagementComparison, bool, error) {
	key := fmt.Sprintf("engagementCompare_%d", days)
	return GetCachedOrQuery(s, "engagement_compare", key, s.ttl, func() (*models.EngagementComparison, error) {
		return s.db.CompareEngagement(ctx, days)
	})
}
