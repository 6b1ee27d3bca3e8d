// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"strings"

	"github.com/tomtom215/forumlens/internal/models"
)

// buildPostConditions converts filters into parameterized WHERE predicates
// for engine. Every predicate is ANDed.
//
// Textual filters fold the column and the needle (see Engine.foldSQL) and use
// instr() so that user input never needs LIKE escaping. Platform compares the
// normalized platform, not the stored spelling:
//
//	WHERE CASE lower(trim(platform)) ... END = ?
//	  AND instr(fold(source), ?) > 0
//	  AND (instr(fold(title), ?) > 0 OR instr(fold(COALESCE(content, '')), ?) > 0)
//	  AND created_utc >= ? AND created_utc <= ?
//	  AND score >= ?
func buildPostConditions(engine Engine, f *models.PostFilters) ([]string, []interface{}) {
	var clauses []string
	var args []interface{}

	if f == nil {
		return clauses, args
	}

	if f.Platform != "" {
		clauses = append(clauses, platformSQL+" = ?")
		args = append(args, string(models.ParsePlatform(string(f.Platform))))
	}
	if f.Source != "" {
		clauses = append(clauses, "instr("+engine.foldSQL("source")+", ?) > 0")
		args = append(args, models.FoldText(f.Source))
	}
	if f.Author != "" {
		clauses = append(clauses, "author IS NOT NULL AND instr("+engine.foldSQL("author")+", ?) > 0")
		args = append(args, models.FoldText(f.Author))
	}
	if f.Search != "" {
		needle := models.FoldText(f.Search)
		clauses = append(clauses, "(instr("+engine.foldSQL("title")+", ?) > 0 OR instr("+
			engine.foldSQL("COALESCE(content, '')")+", ?) > 0)")
		args = append(args, needle, needle)
	}

	appendBound := func(column, op string, value *int64) {
		if value != nil {
			clauses = append(clauses, column+" "+op+" ?")
			args = append(args, *value)
		}
	}
	appendBound("created_utc", ">=", f.StartDate)
	appendBound("created_utc", "<=", f.EndDate)
	appendBound("score", ">=", f.MinScore)
	appendBound("score", "<=", f.MaxScore)
	appendBound("num_comments", ">=", f.MinComments)
	appendBound("num_comments", "<=", f.MaxComments)

	return clauses, args
}

// whereSQL joins conditions into a WHERE clause, or returns "" when there are none.
func whereSQL(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

// sortColumns whitelists the sortable columns; user input never reaches SQL directly.
var sortColumns = map[string]string{
	models.SortByCreated:  "created_utc",
	models.SortByScore:    "score",
	models.SortByComments: "num_comments",
	models.SortByTitle:    "title",
}

// orderBySQL returns the ORDER BY clause for filters. Defaults to newest first.
// id is always the final tie breaker so pagination is stable.
func orderBySQL(f *models.PostFilters) string {
	column := "created_utc"
	direction := "DESC"
	if f != nil {
		if c, ok := sortColumns[f.SortBy]; ok {
			column = c
		}
		if strings.EqualFold(f.SortOrder, models.SortAsc) {
			direction = "ASC"
		}
	}
	return " ORDER BY " + column + " " + direction + ", id ASC"
}

// ValidSortBy reports whether s is an accepted sort key. Empty means default.
func ValidSortBy(s string) bool {
	if s == "" {
		return true
	}
	_, ok := sortColumns[s]
	return ok
}
