// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package middleware

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// CompressionLevel is the gzip level used for JSON responses.
const CompressionLevel = 5

// compressibleTypes lists the content types worth compressing. Snapshot
// exports (application/octet-stream) are already dense and pass through.
var compressibleTypes = []string{
	"application/json",
	"text/plain",
}

// Compression gzips API responses when the client accepts it.
func Compression() func(http.Handler) http.Handler {
	return chimiddleware.Compress(CompressionLevel, compressibleTypes...)
}
