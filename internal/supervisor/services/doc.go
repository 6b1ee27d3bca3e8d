// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

// Package services holds the suture.Service implementations that run under
// the supervisor tree:
//
//   - HTTPServerService binds the listen address and serves the API until the
//     tree shuts down, then drains in-flight requests.
//   - SnapshotRefresher reloads the configured snapshot source on an interval.
//
// The cache janitor lives in the cache package as cache.Janitor.
package services
