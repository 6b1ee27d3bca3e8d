// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/forumlens/internal/models"
)

// testNow is a Friday, 12:00 UTC.
var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

const (
	hour = int64(3600)
	day  = int64(86400)
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int { return &v }

// newTestDB returns an empty handle with a frozen clock and a private work dir.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(Options{
		WorkDir: t.TempDir(),
		Now:     func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// writeSnapshot builds a snapshot file in a fresh temp dir and returns its path.
func writeSnapshot(t *testing.T, engine Engine, posts []models.ForumPost) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "forum."+string(engine))
	if err := BuildSnapshot(context.Background(), engine, path, posts); err != nil {
		t.Fatalf("BuildSnapshot() error = %v", err)
	}
	return path
}

// loadTestDB returns a handle with posts loaded from a SQLite snapshot.
func loadTestDB(t *testing.T, posts []models.ForumPost) *DB {
	t.Helper()
	db := newTestDB(t)
	if err := db.Load(context.Background(), PathSource(writeSnapshot(t, EngineSQLite, posts))); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return db
}

// threePosts is the canonical example: posts on day N-2, N-1 and N with
// scores 50, 100 and 200; two on reddit and one on hackernews.
func threePosts() []models.ForumPost {
	now := testNow.Unix()
	return []models.ForumPost{
		{
			ID: "p1", Title: "Go generics in practice", Content: strPtr("type params everywhere"),
			Author: strPtr("alice"), Platform: models.PlatformReddit, Source: "golang",
			Score: 50, NumComments: 10, CreatedUTC: now - 2*day,
			URL: strPtr("https://example.com/generics"), Permalink: "/r/golang/comments/p1",
		},
		{
			ID: "p2", Title: "Rust vs Go", Author: strPtr("bob"), Platform: models.PlatformReddit,
			Source: "rust", Score: 100, NumComments: 20, CreatedUTC: now - day,
			Permalink: "/r/rust/comments/p2",
		},
		{
			ID: "p3", Title: "Show HN: Forumlens", Author: strPtr("carol"), Platform: models.PlatformHackerNews,
			Source: "show", Score: 200, NumComments: 40, CreatedUTC: now - hour,
			URL: strPtr("https://forumlens.dev"), Permalink: "https://news.ycombinator.com/item?id=3",
		},
	}
}

// samplePosts is a wider dataset for filter and ranking tests.
func samplePosts() []models.ForumPost {
	now := testNow.Unix()
	return []models.ForumPost{
		{ID: "a1", Title: "Go 1.22 released", Author: strPtr("gopher"), Platform: models.PlatformReddit, Source: "golang", Score: 900, NumComments: 120, CreatedUTC: now - 3*hour, Permalink: "/a1"},
		{ID: "a2", Title: "Ask HN: Go or Rust?", Content: strPtr("Thinking about a rewrite in golang"), Author: strPtr("hnuser"), Platform: models.PlatformHackerNews, Source: "ask", Score: 45, NumComments: 88, CreatedUTC: now - 26*hour, Permalink: "/a2"},
		{ID: "a3", Title: "go", Author: strPtr("gopher"), Platform: models.PlatformReddit, Source: "golang", Score: 3, NumComments: 1, CreatedUTC: now - 50*hour, Permalink: "/a3"},
		{ID: "a4", Title: "Weekly thread", Author: nil, Platform: models.PlatformReddit, Source: "GoLangJobs", Score: 12, NumComments: 30, CreatedUTC: now - 4*day, Permalink: "/a4"},
		{ID: "a5", Title: "Postgres tips", Content: strPtr("indexes matter"), Author: strPtr("dba"), Platform: models.PlatformHackerNews, Source: "news", Score: 300, NumComments: 150, CreatedUTC: now - 10*day, Permalink: "/a5"},
		{ID: "a6", Title: "Learning Go the hard way", Author: strPtr("newbie"), Platform: models.PlatformReddit, Source: "learnprogramming", Score: 75, NumComments: 12, CreatedUTC: now - 40*day, Permalink: "/a6"},
		{ID: "a7", Title: "Mastodon thread", Author: strPtr("fedi"), Platform: models.PlatformOther, Source: "fosstodon", Score: 5, NumComments: 2, CreatedUTC: now - 2*hour, Permalink: "/a7"},
		{ID: "a8", Title: "Go channels explained", Author: strPtr("gopher"), Platform: models.PlatformReddit, Source: "golang", Score: 300, NumComments: 40, CreatedUTC: now - 5*day, Permalink: "/a8"},
	}
}

func postIDs(posts []models.ForumPost) []string {
	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	return ids
}
