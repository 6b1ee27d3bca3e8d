// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package database

import (
	"context"
	"fmt"

	"github.com/tomtom215/forumlens/internal/models"
)

// Bucketing uses integer arithmetic on created_utc so the same SQL runs on
// SQLite and DuckDB. SQL % truncates toward zero, so every remainder is taken
// as ((x % m) + m) % m to keep pre-1970 timestamps in the right bucket:
//
//	day_secs  = created_utc mod 86400                  (seconds into the UTC day)
//	day_start = created_utc - day_secs
//	hour_secs = day_secs - created_utc mod 3600        (hour * 3600)
//	dow_secs  = (day_start + 4 * 86400) mod (7 * 86400) (weekday * 86400, 0 = Sunday)
//
// 1970-01-01 was a Thursday, hence the offset of four days.
const (
	daySecsSQL  = "(((created_utc % 86400) + 86400) % 86400)"
	dayStartSQL = "(created_utc - " + daySecsSQL + ")"
	hourSecsSQL = "(" + daySecsSQL + " - ((created_utc % 3600) + 3600) % 3600)"
	dowSecsSQL  = "(((" + dayStartSQL + " + 345600) % 604800 + 604800) % 604800)"
)

// GetPostsTimeSeries returns one bucket per UTC day that has at least one post
// within the trailing window, in chronological order. Non-positive days means
// the whole dataset. Use FillTimeSeriesGaps for a contiguous series.
func (db *DB) GetPostsTimeSeries(ctx context.Context, days int) ([]models.TimeSeriesData, error) {
	var args []interface{}
	where := ""
	if start, ok := db.windowStart(days); ok {
		where = " WHERE created_utc >= ?"
		args = append(args, start)
	}

	query := fmt.Sprintf(`
		SELECT
			%s AS day_start,
			COUNT(*) AS post_count,
			CAST(SUM(score) AS BIGINT) AS total_score,
			CAST(SUM(num_comments) AS BIGINT) AS total_comments
		FROM posts%s
		GROUP BY day_start
		ORDER BY day_start`, dayStartSQL, where)

	series := []models.TimeSeriesData{}
	_, err := db.withSnapshot(ctx, "time_series", func(ctx context.Context, snap *snapshot) error {
		rows, err := snap.conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer closeQuietly(rows)

		for rows.Next() {
			var day, count, totalScore, totalComments int64
			if err := rows.Scan(&day, &count, &totalScore, &totalComments); err != nil {
				return err
			}
			series = append(series, models.TimeSeriesData{
				Day:         day,
				Date:        formatDay(day),
				Count:       count,
				AvgScore:    average(totalScore, count),
				AvgComments: average(totalComments, count),
			})
		}
		return rows.Err()
	})
	if err != nil {
		return []models.TimeSeriesData{}, err
	}
	return series, nil
}

// FillTimeSeriesGaps returns a copy of series with a zero bucket inserted for
// every missing day between the first and last bucket. series must be sorted.
func FillTimeSeriesGaps(series []models.TimeSeriesData) []models.TimeSeriesData {
	if len(series) == 0 {
		return []models.TimeSeriesData{}
	}

	first := dayStart(series[0].Day)
	last := dayStart(series[len(series)-1].Day)
	filled := make([]models.TimeSeriesData, 0, (last-first)/secondsPerDay+1)

	i := 0
	for day := first; day <= last; day += secondsPerDay {
		if i < len(series) && dayStart(series[i].Day) == day {
			filled = append(filled, series[i])
			i++
			continue
		}
		filled = append(filled, models.TimeSeriesData{Day: day, Date: formatDay(day)})
	}
	return filled
}

// GetPostingHeatmap aggregates posts by (day of week, hour of day) in UTC over
// the trailing window. Cells with fewer than minPosts posts are omitted, and
// empty cells are never emitted. Cells are ordered by day of week, then hour.
func (db *DB) GetPostingHeatmap(ctx context.Context, days, minPosts int) ([]models.HeatmapCell, error) {
	var args []interface{}
	where := ""
	if start, ok := db.windowStart(days); ok {
		where = " WHERE created_utc >= ?"
		args = append(args, start)
	}
	threshold := int64(max(minPosts, 1))
	args = append(args, threshold)

	query := fmt.Sprintf(`
		SELECT
			%s AS dow_secs,
			%s AS hour_secs,
			COUNT(*) AS post_count,
			CAST(SUM(score) AS BIGINT) AS total_score,
			CAST(SUM(num_comments) AS BIGINT) AS total_comments
		FROM posts%s
		GROUP BY dow_secs, hour_secs
		HAVING COUNT(*) >= ?
		ORDER BY dow_secs, hour_secs`, dowSecsSQL, hourSecsSQL, where)

	cells := []models.HeatmapCell{}
	_, err := db.withSnapshot(ctx, "heatmap", func(ctx context.Context, snap *snapshot) error {
		rows, err := snap.conn.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer closeQuietly(rows)

		for rows.Next() {
			var dowSecs, hourSecs, count, totalScore, totalComments int64
			if err := rows.Scan(&dowSecs, &hourSecs, &count, &totalScore, &totalComments); err != nil {
				return err
			}
			avgScore := average(totalScore, count)
			avgComments := average(totalComments, count)
			cells = append(cells, models.HeatmapCell{
				DayOfWeek:       int(dowSecs / secondsPerDay),
				Hour:            int(hourSecs / secondsPerHour),
				PostCount:       count,
				TotalScore:      totalScore,
				AvgScore:        avgScore,
				TotalComments:   totalComments,
				AvgComments:     avgComments,
				EngagementScore: avgScore + 2*avgComments,
			})
		}
		return rows.Err()
	})
	if err != nil {
		return []models.HeatmapCell{}, err
	}
	return cells, nil
}
