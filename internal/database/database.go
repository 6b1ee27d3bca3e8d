// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/forumlens/internal/logging"
	"github.com/tomtom215/forumlens/internal/metrics"
	"github.com/tomtom215/forumlens/internal/models"
)

// Options configures a DB handle.
type Options struct {
	// WorkDir holds staged snapshot files. Empty means os.TempDir().
	WorkDir string

	// FetchTimeout bounds URL downloads. Zero means 60 seconds.
	FetchTimeout time.Duration

	// MaxSnapshotBytes caps snapshot size. Zero or negative means unlimited.
	MaxSnapshotBytes int64

	// Now supplies the current time for trailing-window queries. Nil means time.Now.
	Now func() time.Time
}

// snapshot is one opened, validated snapshot file.
type snapshot struct {
	id       string
	conn     *sql.DB
	engine   Engine
	path     string
	source   Source
	size     int64
	digest   [sha256.Size]byte
	loadedAt time.Time
}

func (s *snapshot) close() {
	closeWithLog(s.conn, "snapshot connection")
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logging.Warn().Err(err).Str("path", s.path).Msg("Failed to remove staged snapshot")
	}
	removeQuietly(s.path + ".wal")
}

// DataChangeFunc is called after the loaded dataset changes. version is the
// new data version.
type DataChangeFunc func(version int64)

// DB is the database handle. It owns at most one loaded snapshot and answers
// queries against it.
//
// Queries hold a read lock on the current snapshot for their whole duration.
// Load and Close take the write lock only to swap the snapshot pointer, so a
// query never observes a partially loaded database and a replaced snapshot is
// closed only after in-flight queries drain.
type DB struct {
	mu      sync.RWMutex
	current *snapshot

	workDir string
	fetcher *fetcher
	now     func() time.Time

	// loadSeq numbers loads in start order; committedSeq is the last one swapped in.
	loadSeq      atomic.Uint64
	committedSeq uint64
	dataVersion  int64

	listenersMu sync.RWMutex
	listeners   []DataChangeFunc
}

// New creates an empty handle. Nothing is loaded until Load is called.
func New(opts Options) (*DB, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = filepath.Join(os.TempDir(), "forumlens")
	}
	if err := os.MkdirAll(workDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create work directory %s: %w", workDir, err)
	}

	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &DB{
		workDir: workDir,
		fetcher: newFetcher(timeout, opts.MaxSnapshotBytes),
		now:     now,
	}, nil
}

// OnDataChange registers fn to run after every successful load and every close.
func (db *DB) OnDataChange(fn DataChangeFunc) {
	db.listenersMu.Lock()
	defer db.listenersMu.Unlock()
	db.listeners = append(db.listeners, fn)
}

func (db *DB) notifyDataChange(version int64) {
	db.listenersMu.RLock()
	listeners := make([]DataChangeFunc, len(db.listeners))
	copy(listeners, db.listeners)
	db.listenersMu.RUnlock()

	metrics.SnapshotDataVersion.Set(float64(version))
	for _, fn := range listeners {
		fn(version)
	}
}

// Load fetches, stages, opens and validates a snapshot, then makes it the
// current dataset. On failure it returns a *LoadError and the previous
// snapshot stays active. If a load that started later has already committed,
// the new snapshot is discarded and ErrLoadSuperseded is returned.
func (db *DB) Load(ctx context.Context, src Source) error {
	_, err := db.load(ctx, src, false)
	return err
}

// Refresh is Load for periodic reloads: when the fetched bytes are identical
// to the loaded snapshot it keeps the current snapshot, leaves the data
// version alone and reports false.
func (db *DB) Refresh(ctx context.Context, src Source) (bool, error) {
	return db.load(ctx, src, true)
}

func (db *DB) load(ctx context.Context, src Source, skipUnchanged bool) (bool, error) {
	seq := db.loadSeq.Add(1)
	start := time.Now()
	logger := logging.Ctx(ctx).With().Str("source", src.String()).Uint64("load_seq", seq).Logger()

	fail := func(err error) (bool, error) {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			metrics.RecordSnapshotLoad(string(loadErr.Kind), 0)
		}
		logger.Error().Err(err).Msg("Snapshot load failed")
		return false, err
	}

	data, err := db.fetch(ctx, src)
	if err != nil {
		return fail(err)
	}
	digest := sha256.Sum256(data)
	if skipUnchanged && db.currentDigest() == digest {
		metrics.RecordSnapshotLoad("unchanged", 0)
		logger.Debug().Msg("Snapshot unchanged, keeping current")
		return false, nil
	}

	snap, err := db.prepare(ctx, src, data)
	if err != nil {
		return fail(err)
	}
	snap.digest = digest

	db.mu.Lock()
	if seq <= db.committedSeq {
		db.mu.Unlock()
		snap.close()
		metrics.RecordSnapshotLoad("superseded", 0)
		logger.Warn().Msg("Snapshot load superseded by a newer load")
		return false, ErrLoadSuperseded
	}
	previous := db.current
	db.current = snap
	db.committedSeq = seq
	db.dataVersion++
	version := db.dataVersion
	db.mu.Unlock()

	if previous != nil {
		previous.close()
	}

	metrics.RecordSnapshotLoad("success", time.Since(start))
	metrics.SnapshotSizeBytes.Set(float64(snap.size))
	logger.Info().
		Str("engine", string(snap.engine)).
		Str("snapshot_id", snap.id).
		Int64("size_bytes", snap.size).
		Int64("data_version", version).
		Dur("duration", time.Since(start)).
		Msg("Snapshot loaded")

	db.notifyDataChange(version)
	return true, nil
}

// currentDigest returns the SHA-256 of the loaded snapshot, or the zero
// array when nothing is loaded.
func (db *DB) currentDigest() [sha256.Size]byte {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.current == nil {
		return [sha256.Size]byte{}
	}
	return db.current.digest
}

func (db *DB) fetch(ctx context.Context, src Source) ([]byte, error) {
	if err := src.validate(); err != nil {
		return nil, newLoadError(LoadErrorFetch, src, err)
	}
	data, err := db.fetcher.fetch(ctx, src)
	if err != nil {
		return nil, newLoadError(LoadErrorFetch, src, err)
	}
	return data, nil
}

// prepare does all the work of a load that does not touch the current snapshot.
func (db *DB) prepare(ctx context.Context, src Source, data []byte) (*snapshot, error) {
	engine, err := DetectEngine(data)
	if err != nil {
		return nil, newLoadError(LoadErrorFormat, src, err)
	}

	id := uuid.New().String()
	path, err := db.stage(id, engine, data)
	if err != nil {
		return nil, newLoadError(LoadErrorOpen, src, err)
	}

	conn, err := engine.openReadOnly(path)
	if err != nil {
		removeQuietly(path)
		return nil, newLoadError(LoadErrorOpen, src, err)
	}

	validateCtx, cancel := db.ensureContext(ctx)
	defer cancel()
	if err := validateSchema(validateCtx, conn); err != nil {
		closeQuietly(conn)
		removeQuietly(path)
		return nil, newLoadError(LoadErrorSchema, src, err)
	}

	return &snapshot{
		id:       id,
		conn:     conn,
		engine:   engine,
		path:     path,
		source:   src,
		size:     int64(len(data)),
		loadedAt: db.now().UTC(),
	}, nil
}

// stage writes data to a private file in the work directory.
func (db *DB) stage(id string, engine Engine, data []byte) (string, error) {
	path := filepath.Join(db.workDir, fmt.Sprintf("snapshot-%s.%s", id, engine))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to stage snapshot: %w", err)
	}
	return path, nil
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}

// Export returns the bytes of the loaded snapshot, or nil when nothing is loaded.
func (db *DB) Export(ctx context.Context) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.current == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(db.current.path)
	if err != nil {
		return nil, fmt.Errorf("failed to export snapshot: %w", err)
	}
	return data, nil
}

// Close releases the loaded snapshot. Queries issued afterwards return empty
// results. Closing an empty handle is a no-op.
func (db *DB) Close() error {
	db.mu.Lock()
	previous := db.current
	if previous == nil {
		db.mu.Unlock()
		return nil
	}
	db.current = nil
	// A load that started before this close must not resurrect the old dataset.
	db.committedSeq = db.loadSeq.Load()
	db.dataVersion++
	version := db.dataVersion
	db.mu.Unlock()

	previous.close()
	metrics.SnapshotSizeBytes.Set(0)
	logging.Info().Str("snapshot_id", previous.id).Int64("data_version", version).Msg("Snapshot closed")

	db.notifyDataChange(version)
	return nil
}

// Loaded reports whether a snapshot is currently loaded.
func (db *DB) Loaded() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.current != nil
}

// DataVersion increments on every load and close. It starts at 0.
func (db *DB) DataVersion() int64 {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.dataVersion
}

// Status describes the handle for health and status endpoints.
func (db *DB) Status() models.DatabaseStatus {
	db.mu.RLock()
	defer db.mu.RUnlock()

	status := models.DatabaseStatus{DataVersion: db.dataVersion}
	if db.current == nil {
		return status
	}
	loadedAt := db.current.loadedAt
	status.Loaded = true
	status.SnapshotID = db.current.id
	status.Engine = string(db.current.engine)
	status.Source = db.current.source.String()
	status.SizeBytes = db.current.size
	status.LoadedAt = &loadedAt
	return status
}

// Shutdown closes the loaded snapshot and removes the work directory if it is empty.
func (db *DB) Shutdown() error {
	err := db.Close()
	_ = os.Remove(db.workDir)
	return err
}

// withSnapshot runs fn against the current snapshot under the read lock.
// It reports false without calling fn when nothing is loaded.
func (db *DB) withSnapshot(ctx context.Context, query string, fn func(ctx context.Context, snap *snapshot) error) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	snap := db.current
	if snap == nil {
		return false, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	err := fn(ctx, snap)
	metrics.RecordQuery(query, string(snap.engine), time.Since(start), err)
	if err != nil {
		return true, fmt.Errorf("%s query failed: %w", query, err)
	}
	return true, nil
}
