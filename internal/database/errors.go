// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"errors"
	"fmt"
	"io"

	"github.com/tomtom215/forumlens/internal/logging"
)

var (
	// ErrNotInitialized reports that no snapshot is loaded. Query methods never
	// return it; they return empty results instead.
	ErrNotInitialized = errors.New("database not initialized")

	// ErrLoadSuperseded is returned by Load when a load that started later has
	// already been committed. The superseded snapshot is discarded.
	ErrLoadSuperseded = errors.New("snapshot load superseded by a newer load")

	// ErrSnapshotTooLarge is wrapped in a fetch LoadError when the snapshot
	// exceeds the configured size cap.
	ErrSnapshotTooLarge = errors.New("snapshot exceeds maximum size")
)

// LoadErrorKind classifies why a snapshot could not be loaded.
type LoadErrorKind string

const (
	LoadErrorFetch  LoadErrorKind = "fetch"  // reading the file or URL failed
	LoadErrorFormat LoadErrorKind = "format" // bytes are not a recognized snapshot
	LoadErrorOpen   LoadErrorKind = "open"   // the engine could not open the snapshot
	LoadErrorSchema LoadErrorKind = "schema" // the posts table is missing or malformed
)

// LoadError is returned by Load for every failure except supersession.
// The previously loaded snapshot, if any, stays active.
type LoadError struct {
	Kind   LoadErrorKind
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s error: %v", e.Source, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is a *LoadError of the given kind.
func IsLoadError(err error, kind LoadErrorKind) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr) && loadErr.Kind == kind
}

func newLoadError(kind LoadErrorKind, src Source, err error) *LoadError {
	return &LoadError{Kind: kind, Source: src.String(), Err: err}
}

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource in error paths where the Close error is not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
