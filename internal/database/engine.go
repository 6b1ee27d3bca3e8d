// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"modernc.org/sqlite"

	"github.com/tomtom215/forumlens/internal/models"
)

//nolint:gochecknoinits // SQLite functions must be registered before the first connection opens
func init() {
	sqlite.MustRegisterDeterministicScalarFunction("fold", 1, sqliteFold)
}

// sqliteFold backs fold(text). SQLite's built-in lower() only folds ASCII.
func sqliteFold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return models.FoldText(v), nil
	case []byte:
		return models.FoldText(string(v)), nil
	default:
		return models.FoldText(fmt.Sprint(v)), nil
	}
}

// Engine identifies the embedded SQL engine a snapshot was written with.
type Engine string

const (
	EngineSQLite Engine = "sqlite"
	EngineDuckDB Engine = "duckdb"
)

var (
	sqliteMagic = []byte("SQLite format 3\x00")
	duckdbMagic = []byte("DUCK")
)

// duckdbMagicOffset is where DuckDB stores its magic bytes, after the header checksum.
const duckdbMagicOffset = 8

// DetectEngine inspects the file header and reports which engine wrote it.
func DetectEngine(header []byte) (Engine, error) {
	if bytes.HasPrefix(header, sqliteMagic) {
		return EngineSQLite, nil
	}
	end := duckdbMagicOffset + len(duckdbMagic)
	if len(header) >= end && bytes.Equal(header[duckdbMagicOffset:end], duckdbMagic) {
		return EngineDuckDB, nil
	}
	return "", fmt.Errorf("unrecognized snapshot header (%d bytes)", len(header))
}

// ParseEngine parses an engine name as accepted by the snapshot CLI.
func ParseEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3":
		return EngineSQLite, nil
	case "duckdb", "duck":
		return EngineDuckDB, nil
	default:
		return "", fmt.Errorf("unknown engine %q: must be sqlite or duckdb", name)
	}
}

// driverName returns the database/sql driver registered for the engine.
func (e Engine) driverName() string {
	if e == EngineDuckDB {
		return "duckdb"
	}
	return "sqlite"
}

// foldSQL wraps a text expression so that it compares like models.FoldText.
// DuckDB's lower() is already Unicode aware.
func (e Engine) foldSQL(expr string) string {
	if e == EngineDuckDB {
		return "lower(" + expr + ")"
	}
	return "fold(" + expr + ")"
}

// platformSQL is models.ParsePlatform in SQL. Filters and platform grouping
// both use it so that stored spellings such as "HN" or "Reddit" agree.
const platformSQL = `CASE lower(trim(platform))
			WHEN 'reddit' THEN 'reddit'
			WHEN 'hackernews' THEN 'hackernews'
			WHEN 'hacker_news' THEN 'hackernews'
			WHEN 'hn' THEN 'hackernews'
			ELSE 'other'
		END`

// readOnlyDSN builds a connection string that opens path without write access.
func (e Engine) readOnlyDSN(path string) string {
	if e == EngineDuckDB {
		return path + "?access_mode=read_only&autoinstall_known_extensions=false&autoload_known_extensions=false"
	}
	return "file:" + path + "?mode=ro&_pragma=query_only(1)"
}

// openReadOnly opens the snapshot at path and verifies the connection.
func (e Engine) openReadOnly(path string) (*sql.DB, error) {
	conn, err := sql.Open(e.driverName(), e.readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s snapshot: %w", e, err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(4)
	if err := conn.Ping(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to %s snapshot: %w", e, err)
	}
	return conn, nil
}
