// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

/*
Package middleware provides HTTP middleware for the forumlens API.

All middleware uses the chi signature func(http.Handler) http.Handler and is
installed with r.Use in the api package.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and stores it for logging
  - AccessLog: one structured zerolog line per request, escalated for slow or failed requests
  - PrometheusMetrics: request count, latency and in-flight gauge labelled by chi route pattern
  - Compression: gzip for JSON responses via chi's Compress

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression())

RequestID must come first so that later middleware and handlers log with the
request_id field.
*/
package middleware
