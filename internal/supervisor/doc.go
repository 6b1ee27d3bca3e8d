// Forumlens - Forum Analytics Query and Caching Layer
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/forumlens

/*
Package supervisor provides process supervision for forumlens using suture v4.

The tree groups long-running services into layers so that a failure in one
layer restarts only that layer:

	RootSupervisor ("forumlens")
	├── DataSupervisor ("data-layer")
	│   └── SnapshotRefresher (if SNAPSHOT_REFRESH_INTERVAL > 0)
	├── CacheSupervisor ("cache-layer")
	│   └── cache.Janitor
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. Events are logged through
sutureslog, which bridges to the zerolog-backed slog logger from the logging
package.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddCacheService(svc.Janitor(cfg.Cache.CleanupInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Addr(), 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

After Serve returns, UnstoppedServiceReport lists services that ignored the
shutdown timeout.
*/
package supervisor
