// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Entry represents a cached item. It is valid while now - CreatedAt < TTL.
type Entry struct {
	Data      interface{}
	CreatedAt time.Time
	TTL       time.Duration
}

// Valid reports whether the entry is still fresh at now.
func (e Entry) Valid(now time.Time) bool {
	return now.Sub(e.CreatedAt) < e.TTL
}

// Cache provides a thread-safe in-memory cache with per-entry TTL support.
// It has no capacity bound: entries leave the cache only by TTL expiry,
// Delete, or Clear.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	clock   Clock
	stats   Stats
}

// Stats tracks cache performance metrics
type Stats struct {
	mu          sync.RWMutex
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock, typically with a ManualClock in tests.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New creates a new thread-safe in-memory cache.
//
// Parameters:
//   - ttl: Default expiration duration for entries stored with Set (e.g., 5 * time.Minute)
//   - opts: Optional settings such as WithClock
//
// Expired entries are dropped lazily on Get. To also prune entries nobody asks
// for again, run a Janitor for the cache (see janitor.go).
//
// Example:
//
//	c := cache.New(5 * time.Minute)
//	c.Set("summary", summary)
//	if data, ok := c.Get("summary"); ok {
//	    // Use cached data
//	}
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		clock:   SystemClock,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stats.LastCleanup = c.clock.Now()
	return c
}

// DefaultTTL returns the TTL used by Set.
func (c *Cache) DefaultTTL() time.Duration {
	return c.ttl
}

// Now returns the cache clock's current time.
func (c *Cache) Now() time.Time {
	return c.clock.Now()
}

// Get retrieves a value from the cache by key with automatic expiration checking.
//
// Behavior:
//   - Returns (nil, false) if key doesn't exist
//   - Returns (nil, false) if entry has expired (entry is deleted)
//   - Returns (data, true) if entry is valid
//
// The returned value is the exact value that was stored; callers must treat it
// as read-only.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		c.recordMiss()
		return nil, false
	}

	if !entry.Valid(c.clock.Now()) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have refreshed it.
		if current, ok := c.entries[key]; ok && current.CreatedAt.Equal(entry.CreatedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		c.recordMiss()
		c.recordEviction()
		return nil, false
	}

	c.recordHit()
	return entry.Data, true
}

// Set stores a value in the cache with the default TTL configured at cache creation.
func (c *Cache) Set(key string, value interface{}) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value in the cache with a custom TTL
func (c *Cache) SetWithTTL(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Data:      value,
		CreatedAt: c.clock.Now(),
		TTL:       ttl,
	}

	c.stats.mu.Lock()
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.mu.Unlock()
}

// Delete removes a specific cache entry by key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions++
	c.stats.TotalKeys = total
	c.stats.mu.Unlock()
}

// Clear removes all entries from the cache in a single atomic operation and
// returns how many entries were dropped.
//
// This is the bulk invalidation path: it runs whenever the underlying snapshot
// is loaded, reloaded, or closed, regardless of remaining TTLs.
func (c *Cache) Clear() int {
	c.mu.Lock()
	evictions := len(c.entries)
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions += int64(evictions)
	c.stats.TotalKeys = 0
	c.stats.mu.Unlock()

	return evictions
}

// Len returns the number of stored entries, including expired ones not yet pruned.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a snapshot of current cache performance statistics.
// The returned Stats struct is a copy, safe to read without holding locks.
func (c *Cache) GetStats() Stats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()

	return Stats{
		Hits:        c.stats.Hits,
		Misses:      c.stats.Misses,
		Evictions:   c.stats.Evictions,
		TotalKeys:   c.stats.TotalKeys,
		LastCleanup: c.stats.LastCleanup,
	}
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

// Cleanup removes all expired entries and returns how many were removed.
func (c *Cache) Cleanup() int {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	evictions := 0
	for key, entry := range c.entries {
		if !entry.Valid(now) {
			delete(c.entries, key)
			evictions++
		}
	}

	c.stats.mu.Lock()
	c.stats.Evictions += int64(evictions)
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.LastCleanup = now
	c.stats.mu.Unlock()

	return evictions
}

// recordHit increments the hit counter
func (c *Cache) recordHit() {
	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
}

// recordMiss increments the miss counter
func (c *Cache) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}

// recordEviction increments the eviction counter
func (c *Cache) recordEviction() {
	c.stats.mu.Lock()
	c.stats.Evictions++
	c.stats.mu.Unlock()
}

// GenerateKey creates a cache key from the method name and parameters.
// Distinct parameter values always serialize differently, so the key is
// collision-free up to the 128-bit hash prefix.
func GenerateKey(method string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Fallback to simple string key
		return fmt.Sprintf("%s_%v", method, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s_%x", method, hash[:16])
}
