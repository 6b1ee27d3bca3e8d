// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

/*
Package database provides the read-only query layer over forum post snapshots.

A snapshot is a single SQLite or DuckDB file containing a posts table. The
engine is detected from the file header, so callers never choose a driver:

	db, err := database.New(database.Options{WorkDir: "/var/lib/forumlens"})
	if err != nil {
		return err
	}
	defer db.Shutdown()

	if err := db.Load(ctx, database.ParseSource(cfg.Database.Source)); err != nil {
		return err
	}
	posts, err := db.GetPosts(ctx, models.PostFilters{Platform: models.PlatformReddit})

# Lifecycle

Load fetches the snapshot (file, URL or in-memory bytes), stages a private
copy in the work directory, opens it read-only and validates the schema.
Only then does it swap the new snapshot in. A failed load returns a
*LoadError and leaves the previous snapshot untouched. When two loads race,
the one that started last wins and the other returns ErrLoadSuperseded.

Refresh is the periodic form of Load. It compares the SHA-256 of the fetched
bytes with the loaded snapshot and keeps the current one when they match.

Close drops the snapshot. Every load and close increments DataVersion and
notifies OnDataChange listeners, which the analytics cache uses for
invalidation. A refresh that found nothing new does neither.

# Queries

Every query method returns an empty result and a nil error when nothing is
loaded. The SQL is shared between engines: placeholders are "?", text
matching uses instr() over folded text and time bucketing uses integer
arithmetic on created_utc, so all days, hours and weekdays are UTC.

SQLite's lower() only folds ASCII, so SQLite connections get a fold()
function backed by models.FoldText; DuckDB uses its Unicode-aware lower().
Platforms are compared and grouped in their normalized form, so snapshots
that store "HN" or "Reddit" behave like ones that store "hackernews".

Trailing windows ("days") are measured back from the handle's clock. A
non-positive days means the whole dataset.

# Thread Safety

DB is safe for concurrent use. Queries share a read lock on the current
snapshot; Load and Close take the write lock only for the pointer swap.

# See Also

  - internal/analytics: TTL-cached wrappers around these queries
  - internal/models: result types
*/
package database
