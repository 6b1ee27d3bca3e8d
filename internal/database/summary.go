// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"context"
	"database/sql"
	"sort"

	"github.com/tomtom215/forumlens/internal/models"
)

// GetDatabaseSummary returns dataset-wide totals. With nothing loaded it
// returns a zero summary with an empty platform map.
func (db *DB) GetDatabaseSummary(ctx context.Context) (*models.DatabaseSummary, error) {
	summary := &models.DatabaseSummary{PostsPerPlatform: map[models.Platform]int64{}}

	_, err := db.withSnapshot(ctx, "summary", func(ctx context.Context, snap *snapshot) error {
		var earliest, latest sql.NullInt64
		var totalScore, totalComments int64
		err := snap.conn.QueryRowContext(ctx, `
			SELECT
				COUNT(*),
				COUNT(DISTINCT author),
				COUNT(DISTINCT source),
				MIN(created_utc),
				MAX(created_utc),
				CAST(COALESCE(SUM(score), 0) AS BIGINT),
				CAST(COALESCE(SUM(num_comments), 0) AS BIGINT)
			FROM posts`).Scan(
			&summary.TotalPosts,
			&summary.TotalAuthors,
			&summary.TotalSources,
			&earliest,
			&latest,
			&totalScore,
			&totalComments,
		)
		if err != nil {
			return err
		}
		summary.AvgScore = average(totalScore, summary.TotalPosts)
		summary.AvgComments = average(totalComments, summary.TotalPosts)
		if earliest.Valid {
			summary.EarliestPost = &earliest.Int64
		}
		if latest.Valid {
			summary.LatestPost = &latest.Int64
		}

		stats, err := queryPlatformTotals(ctx, snap.conn)
		if err != nil {
			return err
		}
		for _, s := range stats {
			summary.PostsPerPlatform[s.Platform] = s.Count
		}
		return nil
	})
	if err != nil {
		return &models.DatabaseSummary{PostsPerPlatform: map[models.Platform]int64{}}, err
	}
	return summary, nil
}

// GetPlatformComparison returns one entry per platform present in the dataset,
// ordered by post count descending and then platform name.
func (db *DB) GetPlatformComparison(ctx context.Context) ([]models.PlatformStats, error) {
	stats := []models.PlatformStats{}
	_, err := db.withSnapshot(ctx, "platform_comparison", func(ctx context.Context, snap *snapshot) error {
		var err error
		stats, err = queryPlatformTotals(ctx, snap.conn)
		return err
	})
	if err != nil {
		return []models.PlatformStats{}, err
	}
	return stats, nil
}

// queryPlatformTotals groups by the normalized platform, the same expression
// the platform filter compares, so "hn" and "hackernews" land in one group.
func queryPlatformTotals(ctx context.Context, conn *sql.DB) ([]models.PlatformStats, error) {
	rows, err := conn.QueryContext(ctx, `
		SELECT
			`+platformSQL+` AS normalized_platform,
			COUNT(*),
			CAST(COALESCE(SUM(score), 0) AS BIGINT),
			CAST(COALESCE(SUM(num_comments), 0) AS BIGINT)
		FROM posts
		GROUP BY normalized_platform`)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(rows)

	merged := make(map[models.Platform]*models.PlatformStats)
	for rows.Next() {
		var raw string
		var count, totalScore, totalComments int64
		if err := rows.Scan(&raw, &count, &totalScore, &totalComments); err != nil {
			return nil, err
		}
		platform := models.ParsePlatform(raw)
		s, ok := merged[platform]
		if !ok {
			s = &models.PlatformStats{Platform: platform}
			merged[platform] = s
		}
		s.Count += count
		s.TotalScore += totalScore
		s.TotalComments += totalComments
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := make([]models.PlatformStats, 0, len(merged))
	for _, s := range merged {
		s.AvgScore = average(s.TotalScore, s.Count)
		s.AvgComments = average(s.TotalComments, s.Count)
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Platform < stats[j].Platform
	})
	return stats, nil
}
