// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

// Package analytics puts a TTL cache in front of the database query functions.
//
// Each Service method maps to one query and one cache key family:
//
//	summary                          Summary
//	posts_<hash>, postsCount_<hash>  Posts
//	timeSeries_{days}                TimeSeries
//	heatmap_{days}_{minPosts}        Heatmap
//	topAuthors_{limit}               TopAuthors
//	topSources_{limit}               TopSources
//	platformComparison               PlatformComparison
//	search_{"query"}_{limit}         Search (short TTL)
//	engagement_{days}                Engagement
//	engagementCompare_{days}         CompareEngagement
//
// The whole cache is cleared on every snapshot load and close.
package analytics
