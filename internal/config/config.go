// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/forumlens/internal/logging"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any setting
//
// Example:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	srv := &http.Server{Addr: cfg.Server.Addr()}
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig describes where snapshots come from and how they are staged.
type DatabaseConfig struct {
	// Source is loaded at startup: a file path or an http(s) URL. Empty starts
	// the server with nothing loaded.
	Source string `koanf:"source"`

	// WorkDir holds private copies of loaded snapshots.
	WorkDir string `koanf:"work_dir"`

	FetchTimeout     time.Duration `koanf:"fetch_timeout"`
	MaxSnapshotBytes int64         `koanf:"max_snapshot_bytes"` // 0 = unlimited

	// RefreshInterval reloads Source periodically. 0 disables refreshing.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// AllowedSources lists the directories and http(s) URL prefixes that API
	// clients may name as a snapshot source. Empty allows uploads only.
	// Source itself is operator-supplied and never checked against it.
	AllowedSources []string `koanf:"allowed_sources"`
}

// CacheConfig holds query cache lifetimes.
type CacheConfig struct {
	DefaultTTL      time.Duration `koanf:"default_ttl"`
	SearchTTL       time.Duration `koanf:"search_ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration for zerolog.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// ToLoggingConfig converts to the logging package's configuration.
func (l LoggingConfig) ToLoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = l.Level
	cfg.Format = l.Format
	cfg.Caller = l.Caller
	return cfg
}
