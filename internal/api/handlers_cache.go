// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/forumlens/internal/logging"
)

// CacheStats reports query cache effectiveness.
//
// Method: GET
// Path: /api/v1/cache
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, h.svc.CacheStats(), false, time.Time{}, nil)
}

// CacheClear drops every cached query result.
//
// Method: DELETE
// Path: /api/v1/cache
func (h *Handler) CacheClear(w http.ResponseWriter, r *http.Request) {
	removed := h.svc.ClearCache()
	logging.Ctx(r.Context()).Info().Int("removed", removed).Msg("Query cache cleared via API")
	respondSuccess(w, r, map[string]int{"removed": removed}, false, time.Time{}, nil)
}
