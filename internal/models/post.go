// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Platform identifies the forum a post was scraped from.
type Platform string

const (
	PlatformReddit     Platform = "reddit"
	PlatformHackerNews Platform = "hackernews"
	PlatformOther      Platform = "other"
)

// ParsePlatform normalizes a stored or user-supplied platform name.
// Unknown values map to PlatformOther.
func ParsePlatform(s string) Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reddit":
		return PlatformReddit
	case "hackernews", "hacker_news", "hn":
		return PlatformHackerNews
	default:
		return PlatformOther
	}
}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformReddit, PlatformHackerNews, PlatformOther:
		return true
	}
	return false
}

// ForumPost is one scraped post. Posts are produced by the external ingestion
// process and are never mutated once a snapshot is loaded.
type ForumPost struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     *string  `json:"content,omitempty"`
	Author      *string  `json:"author"`
	Platform    Platform `json:"platform"`
	Source      string   `json:"source"` // subreddit or HN section
	Score       int64    `json:"score"`
	NumComments int64    `json:"num_comments"`
	CreatedUTC  int64    `json:"created_utc"` // Unix seconds
	URL         *string  `json:"url"`
	Permalink   string   `json:"permalink"`
}

// Sort keys accepted by PostFilters.SortBy.
const (
	SortByCreated  = "created_utc"
	SortByScore    = "score"
	SortByComments = "num_comments"
	SortByTitle    = "title"
)

// Sort directions accepted by PostFilters.SortOrder.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// PostFilters holds the parameters of a post listing query.
//
// All set fields combine with AND. Textual filters (Source, Author, Search)
// are case-insensitive substring matches; Platform is an exact match.
// Pointer fields distinguish "not set" from a zero value: a nil Limit means
// no limit while a Limit of 0 yields an empty result.
//
// Example:
//
//	limit := 50
//	minScore := int64(100)
//	filters := PostFilters{
//	    Platform:  PlatformReddit,
//	    Source:    "golang",
//	    MinScore:  &minScore,
//	    SortBy:    SortByScore,
//	    SortOrder: SortDesc,
//	    Limit:     &limit,
//	}
type PostFilters struct {
	Platform    Platform `json:"platform,omitempty"`
	Source      string   `json:"source,omitempty"`
	Author      string   `json:"author,omitempty"`
	Search      string   `json:"search,omitempty"`
	StartDate   *int64   `json:"start_date,omitempty"` // inclusive, Unix seconds
	EndDate     *int64   `json:"end_date,omitempty"`   // inclusive, Unix seconds
	MinScore    *int64   `json:"min_score,omitempty"`
	MaxScore    *int64   `json:"max_score,omitempty"`
	MinComments *int64   `json:"min_comments,omitempty"`
	MaxComments *int64   `json:"max_comments,omitempty"`
	SortBy      string   `json:"sort_by,omitempty"`
	SortOrder   string   `json:"sort_order,omitempty"`
	Limit       *int     `json:"limit,omitempty"`
	Offset      int      `json:"offset,omitempty"`
}

// Matches reports whether post satisfies every predicate in f.
// It mirrors the SQL filter semantics and is used to verify query results.
func (f *PostFilters) Matches(post *ForumPost) bool {
	if f.Platform != "" && post.Platform != f.Platform {
		return false
	}
	if f.Source != "" && !containsFold(post.Source, f.Source) {
		return false
	}
	if f.Author != "" && (post.Author == nil || !containsFold(*post.Author, f.Author)) {
		return false
	}
	if f.Search != "" {
		inContent := post.Content != nil && containsFold(*post.Content, f.Search)
		if !containsFold(post.Title, f.Search) && !inContent {
			return false
		}
	}
	if f.StartDate != nil && post.CreatedUTC < *f.StartDate {
		return false
	}
	if f.EndDate != nil && post.CreatedUTC > *f.EndDate {
		return false
	}
	if f.MinScore != nil && post.Score < *f.MinScore {
		return false
	}
	if f.MaxScore != nil && post.Score > *f.MaxScore {
		return false
	}
	if f.MinComments != nil && post.NumComments < *f.MinComments {
		return false
	}
	if f.MaxComments != nil && post.NumComments > *f.MaxComments {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(FoldText(s), FoldText(substr))
}

// FoldText is the case-insensitive form every textual filter compares:
// NFC normalization followed by Unicode lower-casing. The SQLite snapshots
// expose the same function to SQL as fold().
func FoldText(s string) string {
	// A Caser is stateful and must not be shared between goroutines.
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}

// PostsResponse is a page of posts with the total number of matches.
type PostsResponse struct {
	Posts      []ForumPost `json:"posts"`
	TotalCount int64       `json:"total_count"`
	Limit      *int        `json:"limit,omitempty"`
	Offset     int         `json:"offset"`
}
