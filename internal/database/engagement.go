// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"context"

	"github.com/tomtom215/forumlens/internal/models"
)

// GetEngagementMetrics returns totals and averages over the trailing window of
// days, or over the whole dataset when days is non-positive.
func (db *DB) GetEngagementMetrics(ctx context.Context, days int) (*models.EngagementMetrics, error) {
	end := db.now().Unix()
	windowed := days > 0
	var start int64
	if windowed {
		start = end - int64(days)*secondsPerDay
	} else {
		days = 0
	}

	m, err := db.queryEngagement(ctx, "engagement", start, nil, windowed)
	m.WindowDays = days
	m.Start = start
	m.End = end
	return m, err
}

// CompareEngagement compares the trailing window of days with the window of
// equal length immediately before it. A non-positive days compares the whole
// dataset with an empty previous window and reports zero growth.
func (db *DB) CompareEngagement(ctx context.Context, days int) (*models.EngagementComparison, error) {
	current, err := db.GetEngagementMetrics(ctx, days)
	if err != nil {
		return &models.EngagementComparison{}, err
	}
	if current.WindowDays == 0 {
		return &models.EngagementComparison{Current: *current}, nil
	}

	prevEnd := current.Start
	prevStart := prevEnd - int64(days)*secondsPerDay
	previous, err := db.queryEngagement(ctx, "engagement_previous", prevStart, &prevEnd, true)
	if err != nil {
		return &models.EngagementComparison{}, err
	}
	previous.WindowDays = days
	previous.Start = prevStart
	previous.End = prevEnd

	return &models.EngagementComparison{
		Current:        *current,
		Previous:       *previous,
		PostsGrowth:    models.GrowthPercent(float64(previous.TotalPosts), float64(current.TotalPosts)),
		ScoreGrowth:    models.GrowthPercent(float64(previous.TotalScore), float64(current.TotalScore)),
		CommentsGrowth: models.GrowthPercent(float64(previous.TotalComments), float64(current.TotalComments)),
	}, nil
}

// queryEngagement aggregates posts with created_utc >= start (when windowed)
// and created_utc < *end (when end is non-nil).
func (db *DB) queryEngagement(ctx context.Context, queryName string, start int64, end *int64, windowed bool) (*models.EngagementMetrics, error) {
	var clauses []string
	var args []interface{}
	if windowed {
		clauses = append(clauses, "created_utc >= ?")
		args = append(args, start)
	}
	if end != nil {
		clauses = append(clauses, "created_utc < ?")
		args = append(args, *end)
	}

	query := `
		SELECT
			COUNT(*),
			CAST(COALESCE(SUM(score), 0) AS BIGINT),
			CAST(COALESCE(SUM(num_comments), 0) AS BIGINT),
			COUNT(DISTINCT author)
		FROM posts` + whereSQL(clauses)

	m := &models.EngagementMetrics{}
	_, err := db.withSnapshot(ctx, queryName, func(ctx context.Context, snap *snapshot) error {
		return snap.conn.QueryRowContext(ctx, query, args...).Scan(
			&m.TotalPosts, &m.TotalScore, &m.TotalComments, &m.UniqueAuthors,
		)
	})
	if err != nil {
		return &models.EngagementMetrics{}, err
	}
	m.AvgScore = average(m.TotalScore, m.TotalPosts)
	m.AvgComments = average(m.TotalComments, m.TotalPosts)
	return m, nil
}
