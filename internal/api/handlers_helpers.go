// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/forumlens/internal/logging"
	"github.com/tomtom215/forumlens/internal/models"
	"github.com/tomtom215/forumlens/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	etag := generateETag(data)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("ETag", etag)

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a weak ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `W/"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondSuccess wraps data in the success envelope. Cached responses report
// a query time of 0.
func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}, cached bool, start time.Time, loaded *bool) {
	meta := models.Metadata{
		Timestamp: time.Now().UTC(),
		Cached:    cached,
		Loaded:    loaded,
	}
	if !cached && !start.IsZero() {
		meta.QueryTimeMS = time.Since(start).Milliseconds()
	}
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	respondAPIError(w, r, status, &models.APIError{Code: code, Message: message}, err)
}

func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		event := logging.Warn()
		if r != nil {
			event = logging.Ctx(r.Context()).Warn()
		}
		if status >= http.StatusInternalServerError {
			event = logging.Error()
			if r != nil {
				event = logging.Ctx(r.Context()).Error()
			}
		}
		event.Str("code", sanitizeLogValue(apiErr.Code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    apiErr,
	})
}

// errorEnvelope builds an error response that still carries data, such as a
// readiness probe reporting why it is not ready.
func errorEnvelope(code, message string, data interface{}) *models.APIResponse {
	return &models.APIResponse{
		Status:   "error",
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: code, Message: message},
	}
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
//
// Example:
//
//	if apiErr := validateRequest(&req); apiErr != nil {
//	    respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
//	    return
//	}
func validateRequest(v interface{}) *models.APIError {
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr.ToAPIError()
	}
	return nil
}

// paramError reports a query parameter that could not be parsed.
type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s must be an integer, got %q", e.name, e.value)
}

func (e *paramError) toAPIError() *models.APIError {
	return &models.APIError{
		Code:    codeValidation,
		Message: e.Error(),
		Details: map[string]interface{}{"field": e.name, "tag": "integer"},
	}
}

// queryParser collects integer parameters and remembers the first bad one.
//
//	p := newQueryParser(r)
//	days := p.int("days", 30)
//	if p.err != nil { ... }
type queryParser struct {
	r   *http.Request
	err *paramError
}

func newQueryParser(r *http.Request) *queryParser {
	return &queryParser{r: r}
}

func (p *queryParser) str(key string) string {
	return strings.TrimSpace(p.r.URL.Query().Get(key))
}

func (p *queryParser) int(key string, defaultValue int) int {
	v := p.optionalInt(key)
	if v == nil {
		return defaultValue
	}
	return *v
}

func (p *queryParser) optionalInt(key string) *int {
	v := p.optionalInt64(key)
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}

func (p *queryParser) optionalInt64(key string) *int64 {
	raw := p.str(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if p.err == nil {
			p.err = &paramError{name: key, value: raw}
		}
		return nil
	}
	return &v
}

func (p *queryParser) bool(key string) bool {
	v, err := strconv.ParseBool(p.str(key))
	return err == nil && v
}

// parseAndValidate reports a 400 and returns false when parsing or validation failed.
func parseAndValidate(w http.ResponseWriter, r *http.Request, p *queryParser, req interface{}) bool {
	if p.err != nil {
		respondAPIError(w, r, http.StatusBadRequest, p.err.toAPIError(), nil)
		return false
	}
	if apiErr := validateRequest(req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return false
	}
	return true
}
