// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

// Package logging provides centralized zerolog-based structured logging for Forumlens.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once from main via Init
//   - JSON output for production and console output for development
//   - Request ID propagation through context.Context (Ctx)
//   - Component loggers (Component) for long-lived subsystems
//   - A slog.Handler adapter so sutureslog writes through zerolog
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//	logging.Error().Err(err).Str("source", src).Msg("Snapshot load failed")
//	logging.Ctx(r.Context()).Debug().Msg("Serving cached summary")
//
// Always terminate event chains with .Msg() or .Send(); an unterminated event
// is never written.
package logging
