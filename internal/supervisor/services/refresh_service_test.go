// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/forumlens/internal/database"
)

// scriptedLoader returns errs in order, then nil. Successful refreshes
// report a change unless unchanged is set.
type scriptedLoader struct {
	mu        sync.Mutex
	errs      []error
	unchanged bool
	sources   []database.Source
	calls     chan struct{}
}

func newScriptedLoader(errs ...error) *scriptedLoader {
	return &scriptedLoader{errs: errs, calls: make(chan struct{}, 64)}
}

func (l *scriptedLoader) Refresh(ctx context.Context, src database.Source) (bool, error) {
	l.mu.Lock()
	l.sources = append(l.sources, src)
	var err error
	if len(l.errs) > 0 {
		err, l.errs = l.errs[0], l.errs[1:]
	}
	changed := err == nil && !l.unchanged
	l.mu.Unlock()
	l.calls <- struct{}{}
	return changed, err
}

func (l *scriptedLoader) waitCalls(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-l.calls:
		case <-time.After(2 * time.Second):
			t.Fatalf("got %d loads, want %d", i, n)
		}
	}
}

func TestSnapshotRefresherReloadsOnInterval(t *testing.T) {
	src := database.PathSource("/data/forum.db")
	loader := newScriptedLoader()
	r := NewSnapshotRefresher(loader, src, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	loader.waitCalls(t, 3)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}

	loader.mu.Lock()
	defer loader.mu.Unlock()
	for _, got := range loader.sources {
		if got.String() != src.String() {
			t.Errorf("loaded %q, want %q", got.String(), src.String())
		}
	}
}

func TestSnapshotRefresherSurvivesFailures(t *testing.T) {
	loader := newScriptedLoader(
		errors.New("connection refused"),
		database.ErrLoadSuperseded,
		errors.New("connection refused"),
	)
	r := NewSnapshotRefresher(loader, database.URLSource("http://example.invalid/forum.db"), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Serve(ctx) }()

	loader.waitCalls(t, 4)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if r.failures != 0 {
		t.Errorf("failures = %d after a successful reload, want 0", r.failures)
	}
}

func TestSnapshotRefresherCountsConsecutiveFailures(t *testing.T) {
	loader := newScriptedLoader(errors.New("a"), errors.New("b"), database.ErrLoadSuperseded)
	r := NewSnapshotRefresher(loader, database.PathSource("x.db"), time.Hour)

	ctx := context.Background()
	r.refresh(ctx)
	r.refresh(ctx)
	if r.failures != 2 {
		t.Fatalf("failures = %d, want 2", r.failures)
	}
	r.refresh(ctx)
	if r.failures != 2 {
		t.Errorf("a superseded load should not count as a failure, failures = %d", r.failures)
	}
	if r.String() != "snapshot-refresher" {
		t.Errorf("String() = %q", r.String())
	}
}

func TestSnapshotRefresherUnchangedSourceResetsFailures(t *testing.T) {
	loader := newScriptedLoader(errors.New("timeout"))
	loader.unchanged = true
	r := NewSnapshotRefresher(loader, database.PathSource("x.db"), time.Hour)

	ctx := context.Background()
	r.refresh(ctx)
	if r.failures != 1 {
		t.Fatalf("failures = %d, want 1", r.failures)
	}
	r.refresh(ctx)
	if r.failures != 0 {
		t.Errorf("an unchanged source is a healthy refresh, failures = %d", r.failures)
	}
}
