// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/forumlens/internal/analytics"
	"github.com/tomtom215/forumlens/internal/api"
	"github.com/tomtom215/forumlens/internal/cache"
	"github.com/tomtom215/forumlens/internal/config"
	"github.com/tomtom215/forumlens/internal/database"
	"github.com/tomtom215/forumlens/internal/logging"
	"github.com/tomtom215/forumlens/internal/supervisor"
	"github.com/tomtom215/forumlens/internal/supervisor/services"
)

// shutdownTimeout bounds the HTTP drain on SIGINT/SIGTERM.
const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal in containers.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.Logging.ToLoggingConfig())

	logging.Info().
		Str("source", cfg.Database.Source).
		Str("addr", cfg.Server.Addr()).
		Dur("refresh_interval", cfg.Database.RefreshInterval).
		Msg("Starting forumlens")

	db, err := database.New(database.Options{
		WorkDir:          cfg.Database.WorkDir,
		FetchTimeout:     cfg.Database.FetchTimeout,
		MaxSnapshotBytes: cfg.Database.MaxSnapshotBytes,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database handle")
	}
	defer func() {
		if err := db.Shutdown(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Database.Source != "" {
		// A failed initial load is not fatal: the API reports not-ready and
		// the refresher (or POST /api/v1/database) can load later.
		if err := db.Load(ctx, database.ParseSource(cfg.Database.Source)); err != nil {
			logging.Error().Err(err).Msg("Initial snapshot load failed, starting without data")
		}
	} else {
		logging.Info().Msg("No snapshot source configured, waiting for POST /api/v1/database")
	}

	svc := analytics.NewService(db, cache.New(cfg.Cache.DefaultTTL), analytics.Config{
		DefaultTTL: cfg.Cache.DefaultTTL,
		SearchTTL:  cfg.Cache.SearchTTL,
	})

	router := api.NewRouter(api.NewHandler(svc, cfg), cfg)
	server := &http.Server{
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if cfg.Database.Source != "" && cfg.Database.RefreshInterval > 0 {
		tree.AddDataService(services.NewSnapshotRefresher(db, database.ParseSource(cfg.Database.Source), cfg.Database.RefreshInterval))
	}
	tree.AddCacheService(svc.Janitor(cfg.Cache.CleanupInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), shutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, u := range unstopped {
			logging.Warn().Str("service", u.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Forumlens stopped")
}
