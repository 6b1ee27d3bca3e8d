// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

/*
Package api provides the HTTP REST API for forumlens.

Every JSON response uses the models.APIResponse envelope. Read endpoints go
through the analytics service cache and report metadata.cached and
metadata.query_time_ms; when no snapshot is loaded they still answer 200 with
an empty result and metadata.loaded=false.

Routes:

	GET    /api/v1/health/live                 liveness probe
	GET    /api/v1/health/ready                readiness probe
	GET    /api/v1/database                    snapshot status
	POST   /api/v1/database                    load (?source=, JSON body, or raw upload)
	DELETE /api/v1/database                    close
	GET    /api/v1/database/export             download the loaded snapshot
	GET    /api/v1/summary                     dataset totals
	GET    /api/v1/posts                       filtered, sorted, paged posts
	GET    /api/v1/posts/{id}                  single post
	GET    /api/v1/search?q=                   title search
	GET    /api/v1/analytics/timeseries        daily counts (?days=, ?fill=)
	GET    /api/v1/analytics/heatmap           weekday by hour (?days=, ?min_posts=)
	GET    /api/v1/analytics/top-authors       (?limit=)
	GET    /api/v1/analytics/top-sources       (?limit=)
	GET    /api/v1/analytics/platforms
	GET    /api/v1/analytics/engagement        (?days=)
	GET    /api/v1/analytics/engagement/compare (?days=)
	GET    /api/v1/cache                       cache statistics
	DELETE /api/v1/cache                       clear the cache
	GET    /metrics                            Prometheus

Error Handling:

Parameter errors return 400 VALIDATION_ERROR naming the offending parameter.
Load failures return 422 (not a usable snapshot), 413 (too large) or 502
(fetch failed), and the previous snapshot stays active. A load overtaken by a
newer one returns 409 LOAD_SUPERSEDED.

Middleware:

Request ID, real IP, access logging, panic recovery and CORS apply to every
route. Rate limiting (go-chi/httprate) and Prometheus instrumentation apply
to /api/v1 except the health probes. Data endpoints are gzip-compressed.
*/
package api
