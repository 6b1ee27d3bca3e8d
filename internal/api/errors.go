// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/forumlens/internal/database"
	"github.com/tomtom215/forumlens/internal/models"
)

// Error codes returned in APIError.Code.
const (
	codeValidation     = "VALIDATION_ERROR"
	codeDatabase       = "DATABASE_ERROR"
	codeLoad           = "LOAD_ERROR"
	codeLoadSuperseded = "LOAD_SUPERSEDED"
	codeTooLarge       = "SNAPSHOT_TOO_LARGE"
	codeNotFound       = "NOT_FOUND"
	codeNotLoaded      = "NOT_LOADED"
	codeTimeout        = "TIMEOUT"
	codeRateLimited    = "RATE_LIMIT_EXCEEDED"

	codeSourceNotAllowed = "SOURCE_NOT_ALLOWED"
)

// loadErrorStatus maps a load failure to an HTTP status. Fetch failures are
// upstream problems (502); bytes that are not a usable snapshot are the
// client's problem (422).
func loadErrorStatus(loadErr *database.LoadError) int {
	switch loadErr.Kind {
	case database.LoadErrorFetch:
		if errors.Is(loadErr, database.ErrSnapshotTooLarge) {
			return http.StatusRequestEntityTooLarge
		}
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

// loadErrorMessage is the client-facing summary of a load failure.
func loadErrorMessage(loadErr *database.LoadError) string {
	switch {
	case errors.Is(loadErr, database.ErrSnapshotTooLarge):
		return "Snapshot exceeds the configured size limit"
	case loadErr.Kind == database.LoadErrorFetch:
		return "Failed to fetch snapshot"
	default:
		return "Snapshot load failed"
	}
}

// respondServiceError maps errors from the database and analytics layers to
// API errors.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var loadErr *database.LoadError
	switch {
	case errors.As(err, &loadErr):
		status := loadErrorStatus(loadErr)
		code := codeLoad
		if status == http.StatusRequestEntityTooLarge {
			code = codeTooLarge
		}
		// The cause can name server paths or internal hosts; it is logged, not returned.
		respondAPIError(w, r, status, &models.APIError{
			Code:    code,
			Message: loadErrorMessage(loadErr),
			Details: map[string]interface{}{"kind": string(loadErr.Kind)},
		}, err)
	case errors.Is(err, database.ErrNotInitialized):
		respondError(w, r, http.StatusNotFound, codeNotLoaded, "No snapshot loaded", nil)
	case errors.Is(err, database.ErrLoadSuperseded):
		respondError(w, r, http.StatusConflict, codeLoadSuperseded, err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, codeTimeout, "Query timed out", err)
	case errors.Is(err, context.Canceled):
		// The client went away; there is nobody to answer.
		respondError(w, r, 499, codeTimeout, "Request canceled", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, codeDatabase, "Failed to query database", err)
	}
}
