// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"context"
	"strings"

	"github.com/tomtom215/forumlens/internal/models"
)

// NormalizeSearchQuery trims, NFC-normalizes and lower-cases a search query.
// The result is what SearchPosts matches against the folded title.
func NormalizeSearchQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return ""
	}
	return models.FoldText(query)
}

// SearchPosts returns posts whose title contains query, case-insensitively.
//
// Results are ranked by relevance (exact title 3, title prefix 2, substring 1),
// then score desc, then newest first. An empty or whitespace-only query and a
// non-positive limit both return an empty list.
func (db *DB) SearchPosts(ctx context.Context, query string, limit int) ([]models.SearchResult, error) {
	results := []models.SearchResult{}
	needle := NormalizeSearchQuery(query)
	if needle == "" || limit <= 0 {
		return results, nil
	}

	_, err := db.withSnapshot(ctx, "search", func(ctx context.Context, snap *snapshot) error {
		title := snap.engine.foldSQL("title")
		sqlQuery := `
		SELECT ` + postColumnList + `,
			CASE
				WHEN ` + title + ` = ? THEN 3
				WHEN instr(` + title + `, ?) = 1 THEN 2
				ELSE 1
			END AS relevance
		FROM posts
		WHERE instr(` + title + `, ?) > 0
		ORDER BY relevance DESC, score DESC, created_utc DESC, id ASC
		LIMIT ?`

		rows, err := snap.conn.QueryContext(ctx, sqlQuery, needle, needle, needle, limit)
		if err != nil {
			return err
		}
		defer closeQuietly(rows)

		for rows.Next() {
			var relevance int64
			post, err := scanPost(rows, &relevance)
			if err != nil {
				return err
			}
			results = append(results, models.SearchResult{ForumPost: post, Relevance: int(relevance)})
		}
		return rows.Err()
	})
	if err != nil {
		return []models.SearchResult{}, err
	}
	return results, nil
}
