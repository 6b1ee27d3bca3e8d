// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package api

import (
	"context"
	"net/http"
	"time"
)

// cachedQuery is the shape of every analytics.Service read: the result, whether
// it came from the cache, and an error.
type cachedQuery[T any] func(ctx context.Context) (T, bool, error)

// executeCached encapsulates the common flow of the read endpoints:
//
//  1. Record whether a snapshot is loaded (reported as metadata.loaded)
//  2. Run the cached query
//  3. Map errors to API errors
//  4. Respond with the success envelope, query time and cached flag
//
// Example:
//
//	executeCached(h, w, r, func(ctx context.Context) ([]models.AuthorStats, bool, error) {
//	    return h.svc.TopAuthors(ctx, req.Limit)
//	})
func executeCached[T any](h *Handler, w http.ResponseWriter, r *http.Request, query cachedQuery[T]) {
	start := time.Now()
	loaded := h.db.Loaded()

	data, cached, err := query(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondSuccess(w, r, data, cached, start, &loaded)
}
