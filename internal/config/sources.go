// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package config

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// isURLSource mirrors database.ParseSource: http and https schemes are URLs,
// anything else is a file path.
func isURLSource(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// AllowsSource reports whether an API client may load the snapshot at source.
//
// A path is allowed when it lies inside one of the allowed directories after
// cleaning, so "/srv/snapshots/../etc/passwd" does not match "/srv/snapshots".
// A URL is allowed when its scheme and host equal an allowed prefix and its
// cleaned path lies under the prefix path. URLs carrying credentials are
// always rejected.
func (d DatabaseConfig) AllowsSource(source string) bool {
	source = strings.TrimSpace(source)
	if source == "" {
		return false
	}

	if isURLSource(source) {
		u, err := url.Parse(source)
		if err != nil || u.Host == "" || u.User != nil {
			return false
		}
		for _, entry := range d.AllowedSources {
			if !isURLSource(entry) {
				continue
			}
			prefix, err := url.Parse(entry)
			if err != nil {
				continue
			}
			if strings.EqualFold(u.Scheme, prefix.Scheme) && strings.EqualFold(u.Host, prefix.Host) &&
				withinDir(path.Clean("/"+u.Path), path.Clean("/"+prefix.Path), "/") {
				return true
			}
		}
		return false
	}

	candidate, err := filepath.Abs(source)
	if err != nil {
		return false
	}
	for _, entry := range d.AllowedSources {
		if isURLSource(entry) || !filepath.IsAbs(entry) {
			continue
		}
		if withinDir(candidate, filepath.Clean(entry), string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// withinDir reports whether the cleaned path p equals dir or lies below it.
func withinDir(p, dir, sep string) bool {
	if p == dir {
		return true
	}
	if !strings.HasSuffix(dir, sep) {
		dir += sep
	}
	return strings.HasPrefix(p, dir)
}

func (d DatabaseConfig) validateAllowedSources() error {
	for _, entry := range d.AllowedSources {
		if isURLSource(entry) {
			u, err := url.Parse(entry)
			if err != nil || u.Host == "" {
				return fmt.Errorf("SNAPSHOT_ALLOWED_SOURCES entry %q is not a valid URL prefix", entry)
			}
			continue
		}
		if !filepath.IsAbs(entry) {
			return fmt.Errorf("SNAPSHOT_ALLOWED_SOURCES entry %q must be an absolute directory or an http(s) URL", entry)
		}
	}
	return nil
}
