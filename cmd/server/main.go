// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/beautyflow/internal/api"
	"github.com/tomtom215/beautyflow/internal/config"
	"github.com/tomtom215/beautyflow/internal/database"
	"github.com/tomtom215/beautyflow/internal/events"
	"github.com/tomtom215/beautyflow/internal/logging"
	"github.com/tomtom215/beautyflow/internal/session"
	"github.com/tomtom215/beautyflow/internal/supervisor"
	"github.com/tomtom215/beautyflow/internal/supervisor/services"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("session_store", cfg.Session.Store).
		Bool("events_enabled", cfg.Events.Enabled).
		Msg("Starting beautyflow")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Shutdown complete")
}

// run wires every component and blocks until SIGINT or SIGTERM.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	seeded, err := db.SeedFromCSV(ctx)
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	if seeded.Users > 0 || seeded.Products > 0 {
		logging.Info().
			Int64("users", seeded.Users).
			Int64("products", seeded.Products).
			Msg("Seeded empty tables from CSV")
	}

	var publisher events.Publisher = events.NopPublisher{}
	var bus *events.Bus
	if cfg.Events.Enabled {
		bus = events.NewBus(events.Config{BufferSize: cfg.Events.BufferSize}, nil)
		defer func() {
			if err := bus.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing event bus")
			}
		}()
		publisher = bus
	}

	engine, err := initRecommend(cfg, db, publisher, logging.Logger())
	if err != nil {
		return err
	}

	if cfg.Recommend.BuildOnStartup {
		if err := engine.Build(ctx); err != nil {
			return fmt.Errorf("initial pipeline build: %w", err)
		}
	} else {
		logging.Info().Msg("Pipeline will be built on the first completed questionnaire")
	}

	store, err := session.NewStore(ctx, &cfg.Session)
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing session store")
		}
	}()
	if cfg.Session.Store == string(session.StoreMemory) {
		logging.Warn().Msg("Session store is 'memory': questionnaire sessions are lost on restart")
	}

	handler := api.NewHandler(engine, store,
		api.WithPublisher(publisher),
		api.WithPinger(db),
		api.WithRequestTimeout(cfg.Server.Timeout),
	)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server)))

	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + cfg.Recommend.BuildTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewSessionCleanupService(store, cfg.Session.CleanupInterval))
	if bus != nil {
		tree.AddMessagingService(events.NewConsumer(bus, nil, nil))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
	}

	return nil
}
