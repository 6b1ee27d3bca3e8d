// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/forumlens/internal/models"
)

// Posts returns one page of posts matching the filters, with the total count.
//
// Method: GET
// Path: /api/v1/posts
//
// Query Parameters: see PostsRequest.
func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := PostsRequest{
		Platform:    p.str("platform"),
		Source:      p.str("source"),
		Author:      p.str("author"),
		Search:      p.str("search"),
		StartDate:   p.optionalInt64("start_date"),
		EndDate:     p.optionalInt64("end_date"),
		MinScore:    p.optionalInt64("min_score"),
		MaxScore:    p.optionalInt64("max_score"),
		MinComments: p.optionalInt64("min_comments"),
		MaxComments: p.optionalInt64("max_comments"),
		SortBy:      p.str("sort_by"),
		SortOrder:   strings.ToLower(p.str("sort_order")),
		Limit:       p.int("limit", defaultPostsLimit),
		Offset:      p.int("offset", 0),
	}
	if !parseAndValidate(w, r, p, &req) {
		return
	}

	filters := req.Filters()
	executeCached(h, w, r, func(ctx context.Context) (*models.PostsResponse, bool, error) {
		return h.svc.Posts(ctx, filters)
	})
}

// Post returns a single post by id.
//
// Method: GET
// Path: /api/v1/posts/{id}
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	post, err := h.svc.Post(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if post == nil {
		respondError(w, r, http.StatusNotFound, codeNotFound, "Post not found", nil)
		return
	}
	loaded := true
	respondSuccess(w, r, post, false, start, &loaded)
}

// Summary returns dataset-wide totals.
//
// Method: GET
// Path: /api/v1/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	executeCached(h, w, r, h.svc.Summary)
}

// Search ranks posts whose title contains the query: exact matches first,
// then prefix matches, then other substring matches.
//
// Method: GET
// Path: /api/v1/search?q=...&limit=50
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	req := SearchRequest{
		Query: r.URL.Query().Get("q"),
		Limit: p.int("limit", defaultSearchLimit),
	}
	if !parseAndValidate(w, r, p, &req) {
		return
	}

	executeCached(h, w, r, func(ctx context.Context) ([]models.SearchResult, bool, error) {
		return h.svc.Search(ctx, req.Query, req.Limit)
	})
}
