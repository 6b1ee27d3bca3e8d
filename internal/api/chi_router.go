// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/forumlens/internal/config"
	"github.com/tomtom215/forumlens/internal/middleware"
)

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router for handler. A nil cfg uses the default
// middleware configuration.
func NewRouter(handler *Handler, cfg *config.Config) *Router {
	mwConfig := DefaultChiMiddlewareConfig()
	if cfg != nil {
		mwConfig = ChiMiddlewareConfigFromSecurity(&cfg.Security)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(middleware.DefaultSlowRequestThreshold))
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, codeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Health Endpoints
	// ========================
	// Probes are not rate limited.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		// ========================
		// Database Lifecycle
		// ========================
		r.Route("/database", func(r chi.Router) {
			r.Get("/", router.handler.DatabaseStatus)
			r.Post("/", router.handler.DatabaseLoad)
			r.Delete("/", router.handler.DatabaseClose)
			r.Get("/export", router.handler.DatabaseExport)
		})

		// ========================
		// Data Endpoints
		// ========================
		r.Group(func(r chi.Router) {
			r.Use(middleware.Compression())

			r.Get("/summary", router.handler.Summary)
			r.Get("/posts", router.handler.Posts)
			r.Get("/posts/{id}", router.handler.Post)
			r.Get("/search", router.handler.Search)

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/timeseries", router.handler.AnalyticsTimeSeries)
				r.Get("/heatmap", router.handler.AnalyticsHeatmap)
				r.Get("/top-authors", router.handler.AnalyticsTopAuthors)
				r.Get("/top-sources", router.handler.AnalyticsTopSources)
				r.Get("/platforms", router.handler.AnalyticsPlatforms)
				r.Get("/engagement", router.handler.AnalyticsEngagement)
				r.Get("/engagement/compare", router.handler.AnalyticsEngagementCompare)
			})
		})

		// ========================
		// Query Cache
		// ========================
		r.Get("/cache", router.handler.CacheStats)
		r.Delete("/cache", router.handler.CacheClear)
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
