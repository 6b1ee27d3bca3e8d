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
	"os"
	"sort"
	"strings"

	"github.com/tomtom215/forumlens/internal/logging"
	"github.com/tomtom215/forumlens/internal/models"
)

// postColumns is the canonical column order of the posts table. Every query
// that scans a full post selects exactly these columns.
var postColumns = []string{
	"id", "title", "content", "author", "platform", "source",
	"score", "num_comments", "created_utc", "url", "permalink",
}

var postColumnList = strings.Join(postColumns, ", ")

// createPostsSQL is valid for both SQLite and DuckDB.
const createPostsSQL = `
CREATE TABLE posts (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	content      TEXT,
	author       TEXT,
	platform     TEXT NOT NULL,
	source       TEXT NOT NULL,
	score        BIGINT NOT NULL DEFAULT 0,
	num_comments BIGINT NOT NULL DEFAULT 0,
	created_utc  BIGINT NOT NULL,
	url          TEXT,
	permalink    TEXT NOT NULL DEFAULT ''
)`

var createIndexesSQL = []string{
	"CREATE INDEX idx_posts_created_utc ON posts (created_utc)",
	"CREATE INDEX idx_posts_platform ON posts (platform)",
	"CREATE INDEX idx_posts_author ON posts (author)",
}

// validateSchema checks that the posts table exists and has every canonical
// column. Extra columns are allowed.
func validateSchema(ctx context.Context, conn *sql.DB) error {
	rows, err := conn.QueryContext(ctx, "SELECT name FROM pragma_table_info('posts')")
	if err != nil {
		return fmt.Errorf("failed to inspect posts table: %w", err)
	}
	defer closeQuietly(rows)

	present := make(map[string]bool, len(postColumns))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan column name: %w", err)
		}
		present[strings.ToLower(name)] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to inspect posts table: %w", err)
	}
	if len(present) == 0 {
		return errors.New("posts table not found")
	}

	var missing []string
	for _, col := range postColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("posts table is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// BuildSnapshot writes posts into a new snapshot file at path using the
// canonical schema. The file must not already exist.
//
// Example:
//
//	err := database.BuildSnapshot(ctx, database.EngineSQLite, "forum.db", posts)
func BuildSnapshot(ctx context.Context, engine Engine, path string, posts []models.ForumPost) (err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		return fmt.Errorf("snapshot %s already exists", path)
	}

	conn, err := sql.Open(engine.driverName(), path)
	if err != nil {
		return fmt.Errorf("failed to create %s snapshot: %w", engine, err)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to finalize snapshot: %w", closeErr)
		}
	}()
	conn.SetMaxOpenConns(1)

	if _, err = conn.ExecContext(ctx, createPostsSQL); err != nil {
		return fmt.Errorf("failed to create posts table: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(postColumns)), ", ")
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO posts ("+postColumnList+") VALUES ("+placeholders+")")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeQuietly(stmt)

	for i := range posts {
		p := &posts[i]
		if p.ID == "" {
			return fmt.Errorf("post %d has no id", i)
		}
		platform := p.Platform
		if !platform.Valid() {
			platform = models.ParsePlatform(string(platform))
		}
		if _, err = stmt.ExecContext(ctx,
			p.ID, p.Title, nullString(p.Content), nullString(p.Author), string(platform), p.Source,
			p.Score, p.NumComments, p.CreatedUTC, nullString(p.URL), p.Permalink,
		); err != nil {
			return fmt.Errorf("failed to insert post %s: %w", p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit posts: %w", err)
	}

	for _, ddl := range createIndexesSQL {
		if _, err = conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if engine == EngineDuckDB {
		if _, err = conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			return fmt.Errorf("checkpoint failed: %w", err)
		}
	}

	logging.Debug().Str("engine", string(engine)).Str("path", path).Int("posts", len(posts)).Msg("Snapshot written")
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
