// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

/*
Package main is the forumlens HTTP server.

Forumlens serves read-only analytics over a forum post snapshot: a SQLite or
DuckDB file holding one posts table, loaded from a local path or an http(s)
URL. Query results are cached per data version and dropped whenever a new
snapshot is loaded or the current one is closed.

# Startup

 1. .env via godotenv, then configuration via Koanf (see package config)
 2. zerolog logging
 3. Database handle, loading FORUMLENS_SOURCE when set
 4. Analytics service and TTL cache
 5. Chi router
 6. Supervisor tree: HTTP server, cache janitor, optional snapshot refresher

# Example

	export FORUMLENS_SOURCE=https://data.example.com/forum.db
	export SNAPSHOT_REFRESH_INTERVAL=15m
	./forumlens

	curl localhost:3858/api/v1/analytics/top-authors?limit=5

SIGINT and SIGTERM drain in-flight requests for up to 10 seconds.
*/
package main
