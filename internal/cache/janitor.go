// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package cache

import (
	"context"
	"time"

	"github.com/tomtom215/forumlens/internal/logging"
)

// Janitor periodically prunes expired entries from a Cache.
//
// Janitor implements suture.Service (Serve + String) so it can be added to the
// supervisor tree next to the HTTP server.
type Janitor struct {
	cache    *Cache
	interval time.Duration
	onPrune  func(removed int)
}

// NewJanitor creates a janitor for c. A non-positive interval defaults to 5 minutes.
// onPrune, if non-nil, is called after every pass with the number of removed entries.
func NewJanitor(c *Cache, interval time.Duration, onPrune func(removed int)) *Janitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Janitor{cache: c, interval: interval, onPrune: onPrune}
}

// Serve runs cleanup passes until ctx is canceled.
func (j *Janitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			removed := j.cache.Cleanup()
			if removed > 0 {
				logging.Debug().Int("removed", removed).Msg("Pruned expired cache entries")
			}
			if j.onPrune != nil {
				j.onPrune(removed)
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (j *Janitor) String() string {
	return "cache-janitor"
}
