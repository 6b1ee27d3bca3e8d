// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

/*
Package config provides centralized configuration management for Forumlens.

Configuration is layered with Koanf v2: struct defaults, then an optional
YAML file (CONFIG_PATH, ./config.yaml or /etc/forumlens/config.yaml), then
environment variables. The CLIs load .env files with godotenv before calling
LoadWithKoanf, so .env values behave like real environment variables.

# Environment Variables

Database:
  - FORUMLENS_SOURCE: Snapshot file path or http(s) URL loaded at startup
  - FORUMLENS_WORK_DIR: Directory for staged snapshot copies (default: $TMPDIR/forumlens)
  - SNAPSHOT_FETCH_TIMEOUT: URL download timeout (default: 60s)
  - SNAPSHOT_MAX_BYTES: Maximum snapshot size, 0 for unlimited (default: 2GB)
  - SNAPSHOT_REFRESH_INTERVAL: Periodic reload of FORUMLENS_SOURCE (default: 0, disabled)
  - SNAPSHOT_ALLOWED_SOURCES: Comma-separated directories and http(s) URL prefixes
    that POST /api/v1/database may load from (default: empty, uploads only)

Cache:
  - CACHE_TTL: Lifetime of cached query results (default: 5m)
  - SEARCH_CACHE_TTL: Lifetime of cached search results (default: 1m)
  - CACHE_CLEANUP_INTERVAL: Expired entry pruning interval (default: 5m)

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 3858)
  - HTTP_TIMEOUT: Read/write timeout (default: 30s)

Security:
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)
  - RATE_LIMIT_REQUESTS: Requests per window per client (default: 100)
  - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
  - DISABLE_RATE_LIMIT: Disable rate limiting (default: false)

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include file:line (default: false)

# Example YAML

	database:
	  source: https://snapshots.example.com/forum.db
	  refresh_interval: 15m
	  allowed_sources:
	    - /srv/snapshots
	    - https://snapshots.example.com/exports/
	cache:
	  default_ttl: 10m
	server:
	  port: 8080
*/
package config
