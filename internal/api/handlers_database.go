// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/forumlens/internal/database"
	"github.com/tomtom215/forumlens/internal/logging"
)

// uploadSourceName labels snapshots uploaded in a request body.
const uploadSourceName = "upload"

// DatabaseStatus reports the loaded snapshot.
//
// Method: GET
// Path: /api/v1/database
func (h *Handler) DatabaseStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, h.db.Status(), false, time.Time{}, nil)
}

// DatabaseLoad loads a snapshot and replaces the current one.
//
// Method: POST
// Path: /api/v1/database
//
// The source is taken from, in order:
//   - the ?source= query parameter (file path or http(s) URL)
//   - a JSON body {"source": "..."} when Content-Type is application/json
//   - the raw request body, treated as the snapshot file itself
//
// Paths and URLs must fall under database.allowed_sources, which is empty by
// default, leaving uploads as the only way in.
//
// On failure the previous snapshot stays loaded. Errors map to 400 (bad
// request), 403 (source not allowed), 413 (snapshot too large), 422 (not a
// usable snapshot), 502 (fetch failed) and 409 (superseded by a newer load).
func (h *Handler) DatabaseLoad(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	src, ok := h.loadSource(w, r)
	if !ok {
		return
	}

	if err := h.db.Load(r.Context(), src); err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("source", sanitizeLogValue(src.String())).
		Msg("Snapshot loaded via API")
	respondSuccess(w, r, h.db.Status(), false, start, nil)
}

// loadSource resolves the snapshot source of a load request. It writes the
// error response itself and returns false when the request is unusable.
func (h *Handler) loadSource(w http.ResponseWriter, r *http.Request) (database.Source, bool) {
	if raw := r.URL.Query().Get("source"); raw != "" {
		req := LoadRequest{Source: raw}
		return h.requestedSource(w, r, &req)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req LoadRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 64*1024)).Decode(&req); err != nil {
			respondError(w, r, http.StatusBadRequest, codeValidation, "Invalid JSON body", nil)
			return database.Source{}, false
		}
		return h.requestedSource(w, r, &req)
	}

	body := r.Body
	if limit := h.maxUploadBytes(); limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, http.StatusRequestEntityTooLarge, codeTooLarge,
				fmt.Sprintf("Snapshot exceeds %d bytes", maxErr.Limit), nil)
			return database.Source{}, false
		}
		respondError(w, r, http.StatusBadRequest, codeValidation, "Failed to read request body", err)
		return database.Source{}, false
	}
	if len(data) == 0 {
		respondError(w, r, http.StatusBadRequest, codeValidation,
			"Provide ?source=, a JSON body with a source, or the snapshot file as the body", nil)
		return database.Source{}, false
	}
	return database.BytesSource(uploadSourceName, data), true
}

// requestedSource validates a client-named path or URL and checks it against
// database.allowed_sources.
func (h *Handler) requestedSource(w http.ResponseWriter, r *http.Request, req *LoadRequest) (database.Source, bool) {
	if apiErr := validateRequest(req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return database.Source{}, false
	}
	if h.config == nil || !h.config.Database.AllowsSource(req.Source) {
		logging.Ctx(r.Context()).Warn().
			Str("source", sanitizeLogValue(req.Source)).
			Msg("Rejected snapshot source outside the allowlist")
		respondError(w, r, http.StatusForbidden, codeSourceNotAllowed,
			"Snapshot source is not allowed; upload the snapshot file as the request body", nil)
		return database.Source{}, false
	}
	return database.ParseSource(req.Source), true
}

func (h *Handler) maxUploadBytes() int64 {
	if h.config == nil {
		return 0
	}
	return h.config.Database.MaxSnapshotBytes
}

// DatabaseClose releases the loaded snapshot. Closing when nothing is loaded
// succeeds.
//
// Method: DELETE
// Path: /api/v1/database
func (h *Handler) DatabaseClose(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Close(); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, h.db.Status(), false, time.Time{}, nil)
}

// DatabaseExport streams the loaded snapshot file.
//
// Method: GET
// Path: /api/v1/database/export
func (h *Handler) DatabaseExport(w http.ResponseWriter, r *http.Request) {
	status := h.db.Status()
	data, err := h.db.Export(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if data == nil {
		respondServiceError(w, r, database.ErrNotInitialized)
		return
	}

	ext := status.Engine
	if ext == "" {
		ext = "db"
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="forumlens-%s.%s"`, status.SnapshotID, ext))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write snapshot export")
	}
}
