// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomtom215/forumlens/internal/models"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPost scans the postColumns projection into a ForumPost.
func scanPost(row rowScanner, extra ...interface{}) (models.ForumPost, error) {
	var p models.ForumPost
	var content, author, url sql.NullString
	var platform string

	dest := []interface{}{
		&p.ID, &p.Title, &content, &author, &platform, &p.Source,
		&p.Score, &p.NumComments, &p.CreatedUTC, &url, &p.Permalink,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return p, fmt.Errorf("failed to scan post: %w", err)
	}

	p.Content = stringPtr(content)
	p.Author = stringPtr(author)
	p.URL = stringPtr(url)
	p.Platform = models.ParsePlatform(platform)
	return p, nil
}

// GetPosts returns the posts matching every filter, sorted and paginated.
// It returns an empty slice when nothing is loaded or when Limit is 0.
func (db *DB) GetPosts(ctx context.Context, filters models.PostFilters) ([]models.ForumPost, error) {
	posts := []models.ForumPost{}
	if filters.Limit != nil && *filters.Limit <= 0 {
		return posts, nil
	}

	_, err := db.withSnapshot(ctx, "posts", func(ctx context.Context, snap *snapshot) error {
		query, args := postsQuery(snap.engine, &filters)
		rows, err := snap.conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer closeQuietly(rows)

		for rows.Next() {
			post, err := scanPost(rows)
			if err != nil {
				return err
			}
			posts = append(posts, post)
		}
		return rows.Err()
	})
	if err != nil {
		return []models.ForumPost{}, err
	}
	return posts, nil
}

// postsQuery builds the GetPosts statement for engine.
func postsQuery(engine Engine, filters *models.PostFilters) (string, []interface{}) {
	clauses, args := buildPostConditions(engine, filters)
	query := "SELECT " + postColumnList + " FROM posts" + whereSQL(clauses) + orderBySQL(filters)

	switch {
	case filters.Limit != nil:
		query += " LIMIT ? OFFSET ?"
		args = append(args, *filters.Limit, max(filters.Offset, 0))
	case filters.Offset > 0 && engine == EngineDuckDB:
		query += " OFFSET ?"
		args = append(args, filters.Offset)
	case filters.Offset > 0:
		// SQLite only accepts OFFSET after a LIMIT; -1 means unbounded.
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filters.Offset)
	}
	return query, args
}

// CountPosts returns how many posts match filters, ignoring sort and pagination.
func (db *DB) CountPosts(ctx context.Context, filters models.PostFilters) (int64, error) {
	var count int64
	_, err := db.withSnapshot(ctx, "posts_count", func(ctx context.Context, snap *snapshot) error {
		clauses, args := buildPostConditions(snap.engine, &filters)
		query := "SELECT COUNT(*) FROM posts" + whereSQL(clauses)
		return snap.conn.QueryRowContext(ctx, query, args...).Scan(&count)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// GetPostByID returns a single post, or nil when it does not exist or nothing is loaded.
func (db *DB) GetPostByID(ctx context.Context, id string) (*models.ForumPost, error) {
	var post *models.ForumPost
	_, err := db.withSnapshot(ctx, "post_by_id", func(ctx context.Context, snap *snapshot) error {
		row := snap.conn.QueryRowContext(ctx, "SELECT "+postColumnList+" FROM posts WHERE id = ?", id)
		p, err := scanPost(row)
		if err != nil {
			if isNoRows(err) {
				return nil
			}
			return err
		}
		post = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
