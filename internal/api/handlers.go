// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package api

import (
	"time"

	"github.com/tomtom215/forumlens/internal/analytics"
	"github.com/tomtom215/forumlens/internal/config"
	"github.com/tomtom215/forumlens/internal/database"
)

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response writing and parameter parsing
//   - handlers_health.go: liveness and readiness probes
//   - handlers_database.go: snapshot load, close, status and export
//   - handlers_posts.go: post listing, single post, summary and search
//   - handlers_analytics.go: time series, heatmap, rankings and engagement
//   - handlers_cache.go: cache statistics and invalidation
type Handler struct {
	svc       *analytics.Service
	db        *database.DB
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// Dependencies:
//   - svc: cached analytics service; its handle serves the database endpoints
//   - cfg: application configuration (upload size cap, configured source)
//
// Example:
//
//	svc := analytics.NewService(db, cache.New(cfg.Cache.DefaultTTL), analytics.Config{})
//	handler := api.NewHandler(svc, cfg)
//	router := api.NewRouter(handler, cfg)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(svc *analytics.Service, cfg *config.Config) *Handler {
	return &Handler{
		svc:       svc,
		db:        svc.DB(),
		config:    cfg,
		startTime: time.Now(),
	}
}
