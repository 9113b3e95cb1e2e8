// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

/*
Package supervisor runs beautyflow's long-lived services under suture v4.

The tree has three layers, each restarting independently:

	RootSupervisor ("beautyflow")
	├── DataSupervisor ("data-layer")
	│   └── SessionCleanupService
	├── MessagingSupervisor ("messaging-layer")
	│   └── events.Consumer (if EVENTS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events (start, stop, failure, backoff) are logged through
sutureslog into the zerolog bridge from the logging package.

Usage in main.go:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    logging.Fatal().Err(err).Msg("supervisor tree")
	}
	tree.AddDataService(services.NewSessionCleanupService(store, cfg.Session.CleanupInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("supervisor stopped")
	}

See the services subpackage for the wrappers.
*/
package supervisor
