// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/beautyflow/internal/config"
	"github.com/tomtom215/beautyflow/internal/database"
	"github.com/tomtom215/beautyflow/internal/events"
	"github.com/tomtom215/beautyflow/internal/metrics"
	"github.com/tomtom215/beautyflow/internal/recommend"
)

// metricsBuildHook records every build attempt in Prometheus.
func metricsBuildHook(_ context.Context, r recommend.BuildResult) {
	metrics.RecordPipelineBuild(r.Duration, r.Stats.Population, r.Version, r.Err)
}

// initRecommend creates the engine over the circuit-broken DuckDB source and
// registers the build hooks. The publisher may be events.NopPublisher.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, db *database.DB, publisher events.Publisher, logger zerolog.Logger) (*recommend.Engine, error) {
	source := database.NewBreakerSource(db, database.DefaultBreakerSettings())

	engine, err := recommend.NewEngine(cfg.Recommend.EngineConfig(), source, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	engine.OnBuild(metricsBuildHook)
	engine.OnBuild(events.BuildHook(publisher))

	logger.Info().
		Int("clusters", cfg.Recommend.Clusters).
		Int64("seed", cfg.Recommend.Seed).
		Int("shortlist_cap", cfg.Recommend.ShortlistCap).
		Bool("build_on_startup", cfg.Recommend.BuildOnStartup).
		Msg("Recommendation engine initialized")

	return engine, nil
}
