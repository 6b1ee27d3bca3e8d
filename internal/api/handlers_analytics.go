// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/forumlens/internal/database"
	"github.com/tomtom215/forumlens/internal/models"
)

// This file contains the analytics endpoints. All of them are served through
// the analytics service cache and report metadata.cached.
//
// Analytics Endpoints:
//   - AnalyticsTimeSeries: daily post counts, optionally gap-filled
//   - AnalyticsHeatmap: day-of-week by hour activity grid
//   - AnalyticsTopAuthors / AnalyticsTopSources: rankings by post count
//   - AnalyticsPlatforms: per-platform totals
//   - AnalyticsEngagement: totals and averages over a trailing window
//   - AnalyticsEngagementCompare: period-over-period growth

// parseWindow reads ?days= (default 30, 0 = all time).
func parseWindow(w http.ResponseWriter, r *http.Request) (WindowRequest, bool) {
	p := newQueryParser(r)
	req := WindowRequest{Days: p.int("days", defaultWindowDays)}
	return req, parseAndValidate(w, r, p, &req)
}

// parseLimit reads ?limit= (default 10).
func parseLimit(w http.ResponseWriter, r *http.Request) (LimitRequest, bool) {
	p := newQueryParser(r)
	req := LimitRequest{Limit: p.int("limit", defaultRankLimit)}
	return req, parseAndValidate(w, r, p, &req)
}

// AnalyticsTimeSeries returns one bucket per UTC day that has posts. With
// ?fill=true the days between the first and last bucket are filled with
// zero buckets.
//
// Method: GET
// Path: /api/v1/analytics/timeseries?days=30&fill=false
func (h *Handler) AnalyticsTimeSeries(w http.ResponseWriter, r *http.Request) {
	req, ok := parseWindow(w, r)
	if !ok {
		return
	}
	fill := newQueryParser(r).bool("fill")

	executeCached(h, w, r, func(ctx context.Context) ([]models.TimeSeriesData, bool, error) {
		series, cached, err := h.svc.TimeSeries(ctx, req.Days)
		if err != nil || !fill {
			return series, cached, err
		}
		// The cached series is shared; filling returns a copy.
		return database.FillTimeSeriesGaps(series), cached, nil
	})
}

// AnalyticsHeatmap returns posting activity by (day of week, hour) in UTC.
// Cells with fewer than min_posts posts are omitted.
//
// Method: GET
// Path: /api/v1/analytics/heatmap?days=30&min_posts=1
func (h *Handler) AnalyticsHeatmap(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := HeatmapRequest{
		Days:     p.int("days", defaultWindowDays),
		MinPosts: p.int("min_posts", 1),
	}
	if !parseAndValidate(w, r, p, &req) {
		return
	}

	executeCached(h, w, r, func(ctx context.Context) ([]models.HeatmapCell, bool, error) {
		return h.svc.Heatmap(ctx, req.Days, req.MinPosts)
	})
}

// AnalyticsTopAuthors ranks authors by post count.
//
// Method: GET
// Path: /api/v1/analytics/top-authors?limit=10
func (h *Handler) AnalyticsTopAuthors(w http.ResponseWriter, r *http.Request) {
	req, ok := parseLimit(w, r)
	if !ok {
		return
	}
	executeCached(h, w, r, func(ctx context.Context) ([]models.AuthorStats, bool, error) {
		return h.svc.TopAuthors(ctx, req.Limit)
	})
}

// AnalyticsTopSources ranks sources by post count.
//
// Method: GET
// Path: /api/v1/analytics/top-sources?limit=10
func (h *Handler) AnalyticsTopSources(w http.ResponseWriter, r *http.Request) {
	req, ok := parseLimit(w, r)
	if !ok {
		return
	}
	executeCached(h, w, r, func(ctx context.Context) ([]models.SourceStats, bool, error) {
		return h.svc.TopSources(ctx, req.Limit)
	})
}

// AnalyticsPlatforms compares platforms.
//
// Method: GET
// Path: /api/v1/analytics/platforms
func (h *Handler) AnalyticsPlatforms(w http.ResponseWriter, r *http.Request) {
	executeCached(h, w, r, h.svc.PlatformComparison)
}

// AnalyticsEngagement returns engagement over the trailing window.
//
// Method: GET
// Path: /api/v1/analytics/engagement?days=30
func (h *Handler) AnalyticsEngagement(w http.ResponseWriter, r *http.Request) {
	req, ok := parseWindow(w, r)
	if !ok {
		return
	}
	executeCached(h, w, r, func(ctx context.Context) (*models.EngagementMetrics, bool, error) {
		return h.svc.Engagement(ctx, req.Days)
	})
}

// AnalyticsEngagementCompare compares the trailing window with the window of
// equal length before it.
//
// Method: GET
// Path: /api/v1/analytics/engagement/compare?days=30
func (h *Handler) AnalyticsEngagementCompare(w http.ResponseWriter, r *http.Request) {
	req, ok := parseWindow(w, r)
	if !ok {
		return
	}
	executeCached(h, w, r, func(ctx context.Context) (*models.EngagementComparison, bool, error) {
		return h.svc.CompareEngagement(ctx, req.Days)
	})
}
