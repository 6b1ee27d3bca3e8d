// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

/*
Package validation validates HTTP request parameters with go-playground/validator.

Request structs declare their rules in `validate` tags. Errors are reported
under the `query` (or `json`) tag name so that messages refer to the
parameter the client actually sent:

	type postsRequest struct {
	    Limit    int    `query:"limit" validate:"min=1,max=1000"`
	    Platform string `query:"platform" validate:"omitempty,platform"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    // verr.ToAPIError() yields a VALIDATION_ERROR payload
	}

Custom tags:
  - platform: reddit, hackernews, or other
  - snapshot_source: an http(s) URL with a host, or a file path
  - printable: no control characters
*/
package validation
