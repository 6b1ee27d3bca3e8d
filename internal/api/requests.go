// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package api

import (
	"github.com/tomtom215/forumlens/internal/models"
)

// Request structs are validated with go-playground/validator tags. Field
// errors are reported under the query parameter name.

// Defaults and caps for query parameters.
const (
	defaultPostsLimit  = 100
	defaultRankLimit   = 10
	defaultSearchLimit = 50
	defaultWindowDays  = 30
)

// PostsRequest represents the validated query parameters for GET /posts.
//
// Fields:
//   - Platform: reddit, hackernews or other
//   - Source, Author, Search: case-insensitive substring filters
//   - StartDate, EndDate: inclusive Unix-second bounds on created_utc
//   - MinScore..MaxComments: inclusive numeric bounds
//   - SortBy: created_utc, score, num_comments or title (default created_utc)
//   - SortOrder: asc or desc (default desc)
//   - Limit: page size (0-1000, default 100); 0 returns an empty page
//   - Offset: rows to skip
type PostsRequest struct {
	Platform    string `query:"platform" validate:"omitempty,platform"`
	Source      string `query:"source" validate:"omitempty,max=200,printable"`
	Author      string `query:"author" validate:"omitempty,max=200,printable"`
	Search      string `query:"search" validate:"omitempty,max=500,printable"`
	StartDate   *int64 `query:"start_date" validate:"omitempty,gte=0"`
	EndDate     *int64 `query:"end_date" validate:"omitempty,gte=0"`
	MinScore    *int64 `query:"min_score"`
	MaxScore    *int64 `query:"max_score"`
	MinComments *int64 `query:"min_comments" validate:"omitempty,gte=0"`
	MaxComments *int64 `query:"max_comments" validate:"omitempty,gte=0"`
	SortBy      string `query:"sort_by" validate:"omitempty,oneof=created_utc score num_comments title"`
	SortOrder   string `query:"sort_order" validate:"omitempty,oneof=asc desc"`
	Limit       int    `query:"limit" validate:"min=0,max=1000"`
	Offset      int    `query:"offset" validate:"min=0,max=10000000"`
}

// Filters converts the request to the query layer's filter type.
func (req *PostsRequest) Filters() models.PostFilters {
	limit := req.Limit
	return models.PostFilters{
		Platform:    models.Platform(req.Platform),
		Source:      req.Source,
		Author:      req.Author,
		Search:      req.Search,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MinScore:    req.MinScore,
		MaxScore:    req.MaxScore,
		MinComments: req.MinComments,
		MaxComments: req.MaxComments,
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
		Limit:       &limit,
		Offset:      req.Offset,
	}
}

// WindowRequest represents a trailing window in days. 0 means all time.
type WindowRequest struct {
	Days int `query:"days" validate:"min=0,max=36500"`
}

// HeatmapRequest adds the minimum cell population to a window.
type HeatmapRequest struct {
	Days     int `query:"days" validate:"min=0,max=36500"`
	MinPosts int `query:"min_posts" validate:"min=0,max=1000000"`
}

// LimitRequest represents a ranking size.
type LimitRequest struct {
	Limit int `query:"limit" validate:"min=1,max=1000"`
}

// SearchRequest represents the validated parameters for GET /search.
// An empty query is valid and yields no results.
type SearchRequest struct {
	Query string `query:"q" validate:"max=500,printable"`
	Limit int    `query:"limit" validate:"min=1,max=1000"`
}

// LoadRequest is the JSON body of POST /database.
type LoadRequest struct {
	Source string `json:"source" validate:"required,max=4096,snapshot_source"`
}
