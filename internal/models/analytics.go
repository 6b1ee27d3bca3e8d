// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package models

// DatabaseSummary describes the whole loaded dataset.
type DatabaseSummary struct {
	TotalPosts       int64              `json:"total_posts"`
	TotalAuthors     int64              `json:"total_authors"`
	TotalSources     int64              `json:"total_sources"`
	PostsPerPlatform map[Platform]int64 `json:"posts_per_platform"`
	EarliestPost     *int64             `json:"earliest_post,omitempty"` // Unix seconds
	LatestPost       *int64             `json:"latest_post,omitempty"`   // Unix seconds
	AvgScore         float64            `json:"avg_score"`
	AvgComments      float64            `json:"avg_comments"`
}

// PlatformStats aggregates all posts of one platform.
type PlatformStats struct {
	Platform      Platform `json:"platform"`
	Count         int64    `json:"count"`
	AvgScore      float64  `json:"avg_score"`
	AvgComments   float64  `json:"avg_comments"`
	TotalScore    int64    `json:"total_score"`
	TotalComments int64    `json:"total_comments"`
}

// TimeSeriesData is one daily bucket (UTC).
type TimeSeriesData struct {
	Day         int64   `json:"day"`  // Unix seconds at UTC midnight
	Date        string  `json:"date"` // YYYY-MM-DD
	Count       int64   `json:"count"`
	AvgScore    float64 `json:"avg_score"`
	AvgComments float64 `json:"avg_comments"`
}

// HeatmapCell aggregates posts for one (day of week, hour of day) pair.
// DayOfWeek is 0 for Sunday; Hour is 0-23 in UTC.
type HeatmapCell struct {
	DayOfWeek       int     `json:"day_of_week"`
	Hour            int     `json:"hour"`
	PostCount       int64   `json:"post_count"`
	TotalScore      int64   `json:"total_score"`
	AvgScore        float64 `json:"avg_score"`
	TotalComments   int64   `json:"total_comments"`
	AvgComments     float64 `json:"avg_comments"`
	EngagementScore float64 `json:"engagement_score"` // avg_score + 2*avg_comments
}

// AuthorStats ranks one author.
type AuthorStats struct {
	Author        string  `json:"author"`
	PostCount     int64   `json:"post_count"`
	TotalScore    int64   `json:"total_score"`
	AvgScore      float64 `json:"avg_score"`
	TotalComments int64   `json:"total_comments"`
	AvgComments   float64 `json:"avg_comments"`
}

// SourceStats ranks one source (subreddit or HN section).
type SourceStats struct {
	Source        string  `json:"source"`
	PostCount     int64   `json:"post_count"`
	TotalScore    int64   `json:"total_score"`
	AvgScore      float64 `json:"avg_score"`
	TotalComments int64   `json:"total_comments"`
	AvgComments   float64 `json:"avg_comments"`
}

// Search relevance ranks, highest first.
const (
	RelevanceExact     = 3
	RelevancePrefix    = 2
	RelevanceSubstring = 1
)

// SearchResult is a post matched by a title search.
type SearchResult struct {
	ForumPost
	Relevance int `json:"relevance"`
}

// EngagementMetrics summarizes activity within a trailing window.
// WindowDays of 0 means the whole dataset.
type EngagementMetrics struct {
	WindowDays    int     `json:"window_days"`
	Start         int64   `json:"start"` // Unix seconds, inclusive
	End           int64   `json:"end"`   // Unix seconds, exclusive
	TotalPosts    int64   `json:"total_posts"`
	TotalScore    int64   `json:"total_score"`
	TotalComments int64   `json:"total_comments"`
	AvgScore      float64 `json:"avg_score"`
	AvgComments   float64 `json:"avg_comments"`
	UniqueAuthors int64   `json:"unique_authors"`
}

// EngagementComparison compares a trailing window with the window before it.
// Growth values are percentages.
type EngagementComparison struct {
	Current        EngagementMetrics `json:"current"`
	Previous       EngagementMetrics `json:"previous"`
	PostsGrowth    float64           `json:"posts_growth"`
	ScoreGrowth    float64           `json:"score_growth"`
	CommentsGrowth float64           `json:"comments_growth"`
}

// GrowthPercent returns the period-over-period change from previous to current.
// A previous value of zero yields 0 when current is also zero and 100 otherwise.
func GrowthPercent(previous, current float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}
