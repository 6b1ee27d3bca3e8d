// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

var testEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestCache(ttl time.Duration) (*Cache, *ManualClock) {
	clock := NewManualClock(testEpoch)
	return New(ttl, WithClock(clock)), clock
}

func TestCacheBasicOperations(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	value, exists := c.Get("key1")
	if !exists {
		t.Error("Expected key1 to exist")
	}
	if value != "value1" {
		t.Errorf("Expected value1, got %v", value)
	}

	_, exists = c.Get("key2")
	if exists {
		t.Error("Expected key2 to not exist")
	}
}

func TestCacheReturnsSameReference(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	stored := &struct{ N int }{N: 7}
	c.Set("ref", stored)

	first, _ := c.Get("ref")
	second, _ := c.Get("ref")
	if first != second || first != stored {
		t.Error("Expected Get to return the stored reference unchanged")
	}
}

func TestCacheExpiration(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		advance time.Duration
		want    bool
	}{
		{"fresh", time.Minute, 0, true},
		{"just before expiry", time.Minute, time.Minute - time.Nanosecond, true},
		{"exactly at expiry", time.Minute, time.Minute, false},
		{"after expiry", time.Minute, 2 * time.Minute, false},
		{"zero ttl never served", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock := newTestCache(tt.ttl)
			c.Set("k", "v")
			clock.Advance(tt.advance)

			_, ok := c.Get("k")
			if ok != tt.want {
				t.Errorf("Get() ok = %v, want %v", ok, tt.want)
			}
		})
	}
}

func TestCacheExpiredEntryIsRemoved(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("k", "v")
	clock.Advance(time.Hour)

	if _, ok := c.Get("k"); ok {
		t.Fatal("Expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Errorf("Expected expired entry to be deleted, Len() = %d", c.Len())
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c, clock := newTestCache(5 * time.Minute)

	c.Set("long", "a")
	c.SetWithTTL("short", "b", time.Minute)

	clock.Advance(90 * time.Second)

	if _, ok := c.Get("short"); ok {
		t.Error("Expected short-lived entry to expire")
	}
	if _, ok := c.Get("long"); !ok {
		t.Error("Expected default TTL entry to survive")
	}
}

func TestCacheOverwriteRefreshesTTL(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("k", 1)
	clock.Advance(50 * time.Second)
	c.Set("k", 2)
	clock.Advance(50 * time.Second)

	value, ok := c.Get("k")
	if !ok || value != 2 {
		t.Errorf("Get() = %v, %v; want 2, true", value, ok)
	}
}

func TestCacheDelete(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	c.Delete("key1")

	if _, exists := c.Get("key1"); exists {
		t.Error("Expected key1 to be deleted")
	}
}

func TestCacheClear(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	c.Set("key2", "value2")
	c.Set("key3", "value3")

	if removed := c.Clear(); removed != 3 {
		t.Errorf("Clear() = %d, want 3", removed)
	}

	for _, key := range []string{"key1", "key2", "key3"} {
		if _, exists := c.Get(key); exists {
			t.Errorf("Expected %s to be cleared", key)
		}
	}

	if stats := c.GetStats(); stats.TotalKeys != 0 {
		t.Errorf("Expected 0 total keys after clear, got %d", stats.TotalKeys)
	}
}

func TestCacheStats(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	c.Set("key2", "value2")

	c.Get("key1")
	c.Get("key1")
	c.Get("key2")
	c.Get("missing")

	stats := c.GetStats()
	if stats.Hits != 3 {
		t.Errorf("Expected 3 hits, got %d", stats.Hits)
	}
	if stats.Misses != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.Misses)
	}
	if stats.TotalKeys != 2 {
		t.Errorf("Expected 2 total keys, got %d", stats.TotalKeys)
	}
	if rate := c.HitRate(); rate != 75.0 {
		t.Errorf("Expected 75%% hit rate, got %.2f", rate)
	}
}

func TestCacheHitRateEmpty(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	if rate := c.HitRate(); rate != 0 {
		t.Errorf("Expected 0 hit rate for unused cache, got %f", rate)
	}
}

func TestCacheCleanup(t *testing.T) {
	c, clock := newTestCache(time.Minute)

	c.Set("old1", 1)
	c.Set("old2", 2)
	clock.Advance(45 * time.Second)
	c.Set("new", 3)
	clock.Advance(30 * time.Second)

	if removed := c.Cleanup(); removed != 2 {
		t.Errorf("Cleanup() = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	stats := c.GetStats()
	if !stats.LastCleanup.Equal(clock.Now()) {
		t.Errorf("LastCleanup = %v, want %v", stats.LastCleanup, clock.Now())
	}
	if stats.Evictions != 2 {
		t.Errorf("Evictions = %d, want 2", stats.Evictions)
	}
}

func TestCacheConcurrency(t *testing.T) {
	c := New(time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key%d", n%10)
			c.Set(key, n)
			c.Get(key)
			if n%7 == 0 {
				c.Clear()
			}
			if n%5 == 0 {
				c.Cleanup()
			}
		}(i)
	}
	wg.Wait()

	stats := c.GetStats()
	if stats.Hits+stats.Misses != 50 {
		t.Errorf("Expected 50 lookups recorded, got %d", stats.Hits+stats.Misses)
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		Days  int    `json:"days"`
		Query string `json:"query"`
	}

	a := GenerateKey("posts", params{Days: 7, Query: "go"})
	b := GenerateKey("posts", params{Days: 7, Query: "go"})
	c := GenerateKey("posts", params{Days: 30, Query: "go"})
	d := GenerateKey("count", params{Days: 7, Query: "go"})

	if a != b {
		t.Error("Expected identical params to produce identical keys")
	}
	if a == c {
		t.Error("Expected different params to produce different keys")
	}
	if a == d {
		t.Error("Expected different methods to produce different keys")
	}
	if !strings.HasPrefix(a, "posts_") {
		t.Errorf("Expected method prefix, got %s", a)
	}
	if len(a) != len("posts_")+32 {
		t.Errorf("Expected 32 hex chars after prefix, got %s", a)
	}
}

func TestGenerateKeyUnmarshalableFallsBack(t *testing.T) {
	key := GenerateKey("bad", make(chan int))
	if !strings.HasPrefix(key, "bad_") {
		t.Errorf("Expected fallback key with method prefix, got %s", key)
	}
}

func TestJanitorPrunesExpiredEntries(t *testing.T) {
	c, clock := newTestCache(time.Minute)
	c.Set("k1", 1)
	c.Set("k2", 2)
	clock.Advance(2 * time.Minute)

	pruned := make(chan int, 1)
	j := NewJanitor(c, 5*time.Millisecond, func(removed int) {
		select {
		case pruned <- removed:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Serve(ctx) }()

	select {
	case removed := <-pruned:
		if removed != 2 {
			t.Errorf("Expected first pass to prune 2 entries, got %d", removed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Janitor did not run")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
	if j.String() != "cache-janitor" {
		t.Errorf("String() = %q", j.String())
	}
}

func TestNewJanitorDefaultsInterval(t *testing.T) {
	j := NewJanitor(New(time.Minute), 0, nil)
	if j.interval != 5*time.Minute {
		t.Errorf("interval = %v, want 5m", j.interval)
	}
}
