// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/forumlens/internal/database"
	"github.com/tomtom215/forumlens/internal/logging"
)

// SnapshotLoader is satisfied by *database.DB.
type SnapshotLoader interface {
	Refresh(ctx context.Context, src database.Source) (bool, error)
}

// SnapshotRefresher reloads a snapshot source on a fixed interval so that a
// periodically regenerated file or URL is picked up without a restart.
//
// A source whose bytes have not changed is not reloaded, so the query cache
// survives. A failed reload keeps the current snapshot and is retried after
// the next interval; it never stops the service.
type SnapshotRefresher struct {
	loader  SnapshotLoader
	source  database.Source
	limiter *rate.Limiter
	name    string

	failures int
}

// NewSnapshotRefresher creates a refresher. interval must be positive. The
// first reload happens one interval after Serve starts, since the server
// loads the source itself at startup.
func NewSnapshotRefresher(loader SnapshotLoader, source database.Source, interval time.Duration) *SnapshotRefresher {
	limiter := rate.NewLimiter(rate.Every(interval), 1)
	limiter.Allow()
	return &SnapshotRefresher{
		loader:  loader,
		source:  source,
		limiter: limiter,
		name:    "snapshot-refresher",
	}
}

// Serve implements suture.Service.
func (s *SnapshotRefresher) Serve(ctx context.Context) error {
	for {
		// Wait also fails early when the next token lies past ctx's deadline.
		if err := s.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		s.refresh(ctx)
	}
}

func (s *SnapshotRefresher) refresh(ctx context.Context) {
	logger := logging.Component(s.name)

	changed, err := s.loader.Refresh(ctx, s.source)
	switch {
	case err == nil:
		if !changed {
			logger.Debug().Str("source", s.source.String()).Msg("Snapshot source unchanged")
		}
		if s.failures > 0 {
			logger.Info().Int("after_failures", s.failures).Msg("Snapshot refresh recovered")
		}
		s.failures = 0
	case errors.Is(err, database.ErrLoadSuperseded), ctx.Err() != nil:
		// A concurrent load won, or we are shutting down.
		logger.Debug().Err(err).Msg("Snapshot refresh skipped")
	default:
		s.failures++
		logger.Warn().Err(err).
			Str("source", s.source.String()).
			Int("consecutive_failures", s.failures).
			Msg("Snapshot refresh failed, keeping current snapshot")
	}
}

// String implements fmt.Stringer for suture's logs.
func (s *SnapshotRefresher) String() string {
	return s.name
}
