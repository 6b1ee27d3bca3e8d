// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package api

import (
	"net/http"
	"time"
)

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// Method: GET
// Path: /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, false, time.Time{}, nil)
}

// HealthReady handles readiness probe requests (Kubernetes-style).
//
// Method: GET
// Path: /api/v1/health/ready
//
// Without a configured source the service is ready immediately: queries
// answer with empty results until a snapshot is uploaded. With a configured
// source it reports 503 until a snapshot is loaded.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := h.db.Status()
	sourceConfigured := h.config != nil && h.config.Database.Source != ""
	ready := status.Loaded || !sourceConfigured

	data := map[string]interface{}{
		"ready":        ready,
		"loaded":       status.Loaded,
		"data_version": status.DataVersion,
	}
	if !ready {
		respondJSON(w, http.StatusServiceUnavailable, errorEnvelope(codeNotLoaded, "Snapshot not loaded yet", data))
		return
	}
	respondSuccess(w, r, data, false, time.Time{}, nil)
}
