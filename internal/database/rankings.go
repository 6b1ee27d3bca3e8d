// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/forumlens/internal/models"
)

// GetTopAuthors ranks authors by post count, then total score, then name.
// Posts without an author are excluded. A non-positive limit returns an empty list.
func (db *DB) GetTopAuthors(ctx context.Context, limit int) ([]models.AuthorStats, error) {
	rows, err := db.queryRanking(ctx, "top_authors", "author", limit)
	authors := make([]models.AuthorStats, 0, len(rows))
	for _, r := range rows {
		authors = append(authors, models.AuthorStats{
			Author:        r.name,
			PostCount:     r.postCount,
			TotalScore:    r.totalScore,
			AvgScore:      average(r.totalScore, r.postCount),
			TotalComments: r.totalComments,
			AvgComments:   average(r.totalComments, r.postCount),
		})
	}
	return authors, err
}

// GetTopSources ranks sources (subreddits, HN sections) the same way as GetTopAuthors.
func (db *DB) GetTopSources(ctx context.Context, limit int) ([]models.SourceStats, error) {
	rows, err := db.queryRanking(ctx, "top_sources", "source", limit)
	sources := make([]models.SourceStats, 0, len(rows))
	for _, r := range rows {
		sources = append(sources, models.SourceStats{
			Source:        r.name,
			PostCount:     r.postCount,
			TotalScore:    r.totalScore,
			AvgScore:      average(r.totalScore, r.postCount),
			TotalComments: r.totalComments,
			AvgComments:   average(r.totalComments, r.postCount),
		})
	}
	return sources, err
}

// rankRow is one grouped row of a top-N ranking.
type rankRow struct {
	name          string
	postCount     int64
	totalScore    int64
	totalComments int64
}

// queryRanking groups posts by column and returns the top limit groups ordered
// by post count desc, total score desc, name asc. Null and empty names are skipped.
func (db *DB) queryRanking(ctx context.Context, queryName, column string, limit int) ([]rankRow, error) {
	ranked := []rankRow{}
	if limit <= 0 {
		return ranked, nil
	}

	query := fmt.Sprintf(`
		SELECT
			%[1]s AS name,
			COUNT(*) AS post_count,
			CAST(SUM(score) AS BIGINT) AS total_score,
			CAST(SUM(num_comments) AS BIGINT) AS total_comments
		FROM posts
		WHERE %[1]s IS NOT NULL AND %[1]s <> ''
		GROUP BY %[1]s
		ORDER BY post_count DESC, total_score DESC, name ASC
		LIMIT ?`, column)

	_, err := db.withSnapshot(ctx, queryName, func(ctx context.Context, snap *snapshot) error {
		rows, err := snap.conn.QueryContext(ctx, query, limit)
		if err != nil {
			return err
		}
		defer closeQuietly(rows)

		for rows.Next() {
			var r rankRow
			if err := rows.Scan(&r.name, &r.postCount, &r.totalScore, &r.totalComments); err != nil {
				return err
			}
			ranked = append(ranked, r)
		}
		return rows.Err()
	})
	if err != nil {
		return []rankRow{}, err
	}
	return ranked, nil
}
