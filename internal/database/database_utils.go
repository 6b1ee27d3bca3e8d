// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"context"
	"time"
)

const (
	secondsPerHour = 3600
	secondsPerDay  = 86400

	// defaultQueryTimeout applies when the caller's context has no deadline.
	defaultQueryTimeout = 30 * time.Second
)

// ensureContext adds a 30-second timeout if ctx has no deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), defaultQueryTimeout)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, defaultQueryTimeout)
	}
	return ctx, func() {}
}

// windowStart returns the inclusive lower bound of a trailing window of days,
// and false when days is non-positive (all time).
func (db *DB) windowStart(days int) (int64, bool) {
	if days <= 0 {
		return 0, false
	}
	return db.now().Unix() - int64(days)*secondsPerDay, true
}

// dayStart truncates a Unix timestamp to UTC midnight.
func dayStart(ts int64) int64 {
	return ts - mod(ts, secondsPerDay)
}

// mod is a modulo that is never negative for a positive m.
func mod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func formatDay(day int64) string {
	return time.Unix(day, 0).UTC().Format("2006-01-02")
}

func average(total, count int64) float64 {
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}
