// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

// Command snapshot builds a forumlens snapshot from JSON Lines.
//
// Each input line is one post object with the same fields the API returns
// (id, title, content, author, platform, source, score, num_comments,
// created_utc, url, permalink). Blank lines are skipped.
//
//	snapshot -in posts.jsonl -out forum.db
//	scraper | snapshot -engine duckdb -out forum.duckdb
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"

	"github.com/tomtom215/forumlens/internal/database"
	"github.com/tomtom215/forumlens/internal/logging"
	"github.com/tomtom215/forumlens/internal/models"
)

func main() {
	_ = godotenv.Load()

	in := flag.String("in", "-", "JSONL input file, - for stdin")
	out := flag.String("out", "forum.db", "snapshot file to create")
	engineName := flag.String("engine", "sqlite", "snapshot engine: sqlite or duckdb")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	logging.Init(logging.Config{Level: *level, Format: "console", Timestamp: true, Output: os.Stderr})

	if err := run(context.Background(), *in, *out, *engineName); err != nil {
		logging.Fatal().Err(err).Msg("Snapshot build failed")
	}
}

func run(ctx context.Context, in, out, engineName string) error {
	engine, err := database.ParseEngine(engineName)
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if in != "-" {
		f, err := os.Open(in) //nolint:gosec // path comes from the operator
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	posts, err := readPosts(r)
	if err != nil {
		return err
	}
	if err := database.BuildSnapshot(ctx, engine, out, posts); err != nil {
		return err
	}

	logging.Info().
		Str("path", out).
		Str("engine", string(engine)).
		Int("posts", len(posts)).
		Msg("Snapshot written")
	return nil
}

// maxLineBytes bounds a single JSONL record.
const maxLineBytes = 16 << 20

// readPosts decodes one post per line. Platform names are normalized and
// duplicate ids are rejected since id is the snapshot's primary key.
func readPosts(r io.Reader) ([]models.ForumPost, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	posts := make([]models.ForumPost, 0, 1024)
	seen := make(map[string]int)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var p models.ForumPost
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("line %d: missing id", line)
		}
		if first, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("line %d: duplicate id %q (first seen on line %d)", line, p.ID, first)
		}
		seen[p.ID] = line
		p.Platform = models.ParsePlatform(string(p.Platform))

		posts = append(posts, p)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("line %d: record exceeds %d bytes", line+1, maxLineBytes)
		}
		return nil, fmt.Errorf("read input: %w", err)
	}
	return posts, nil
}
