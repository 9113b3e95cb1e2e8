// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// The ProfileSource interface lets the database layer feed builds without
// creating circular imports.

// ProfileSource supplies the population and catalog a pipeline is built from.
// This is typically implemented by the database layer.
type ProfileSource interface {
	// LoadUsers returns every respondent profile.
	LoadUsers(ctx context.Context) ([]UserProfile, error)

	// LoadProducts returns the full product catalog.
	LoadProducts(ctx context.Context) ([]Product, error)
}

// BuildResult describes a finished build attempt.
type BuildResult struct {
	Version  int64
	Duration time.Duration
	Stats    Stats
	Err      error
}

// BuildHook is invoked after every build attempt, successful or not.
type BuildHook func(ctx context.Context, result BuildResult)

// Engine owns the current pipeline and rebuilds it from a ProfileSource.
// Reads never block: the pipeline is swapped atomically after a complete build.
type Engine struct {
	config *Config
	source ProfileSource
	logger zerolog.Logger

	current atomic.Pointer[Pipeline]
	version atomic.Int64

	// buildMu makes builds single-flight. Build gives up when it is held;
	// Ensure waits for it.
	buildMu sync.Mutex

	hooksMu sync.RWMutex
	hooks   []BuildHook
}

// NewEngine creates an engine. No pipeline exists until Build or Ensure runs.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source ProfileSource, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: profile source is required", ErrConfiguration)
	}

	return &Engine{
		config: cfg.Clone(),
		source: source,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// OnBuild registers a hook called after each build attempt.
func (e *Engine) OnBuild(hook BuildHook) {
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	e.hooks = append(e.hooks, hook)
}

// Pipeline returns the current pipeline or ErrNotReady.
func (e *Engine) Pipeline() (*Pipeline, error) {
	p := e.current.Load()
	if p == nil {
		return nil, ErrNotReady
	}
	return p, nil
}

// Ready reports whether a pipeline has been built.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// Version returns the number of successful builds.
func (e *Engine) Version() int64 {
	return e.version.Load()
}

// Recommend implements Recommender against the current pipeline.
func (e *Engine) Recommend(answers map[string]string) ([]Product, int, error) {
	p, err := e.Pipeline()
	if err != nil {
		return nil, 0, err
	}
	return p.Recommend(answers)
}

// Ensure builds the pipeline on first use. Concurrent callers, and callers
// arriving while a rebuild is running, wait for that build instead of
// starting their own.
func (e *Engine) Ensure(ctx context.Context) (*Pipeline, error) {
	if p := e.current.Load(); p != nil {
		return p, nil
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()

	if p := e.current.Load(); p != nil {
		return p, nil
	}
	if err := e.build(ctx); err != nil {
		return nil, err
	}
	return e.current.Load(), nil
}

// Build loads the population and catalog, builds a new pipeline and swaps it
// in. Returns ErrBuildInProgress immediately if another build is running.
// On failure the previous pipeline, if any, stays in place.
func (e *Engine) Build(ctx context.Context) error {
	if !e.buildMu.TryLock() {
		return ErrBuildInProgress
	}
	defer e.buildMu.Unlock()
	return e.build(ctx)
}

// build runs one build. The caller holds buildMu.
func (e *Engine) build(ctx context.Context) error {
	start := time.Now()
	e.logger.Info().Int("clusters", e.config.Clusters).Int64("seed", e.config.Seed).Msg("starting pipeline build")

	pipeline, err := e.buildPipeline(ctx)
	result := BuildResult{Duration: time.Since(start), Err: err}
	if err != nil {
		e.logger.Error().Err(err).Dur("duration", result.Duration).Msg("pipeline build failed")
		e.runHooks(ctx, result)
		return err
	}

	e.current.Store(pipeline)
	result.Version = e.version.Add(1)
	result.Stats = pipeline.Stats()

	e.logger.Info().
		Int64("version", result.Version).
		Int("population", result.Stats.Population).
		Int("products", result.Stats.Products).
		Int("feature_width", result.Stats.FeatureWidth).
		Dur("duration", result.Duration).
		Msg("pipeline build complete")

	e.runHooks(ctx, result)
	return nil
}

func (e *Engine) buildPipeline(ctx context.Context) (*Pipeline, error) {
	loadCtx, cancel := context.WithTimeout(ctx, e.config.BuildTimeout)
	defer cancel()

	users, err := e.source.LoadUsers(loadCtx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	products, err := e.source.LoadProducts(loadCtx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	e.logger.Debug().Int("users", len(users)).Int("products", len(products)).Msg("loaded build data")

	return BuildPipeline(users, products, e.config)
}

func (e *Engine) runHooks(ctx context.Context, result BuildResult) {
	e.hooksMu.RLock()
	hooks := append([]BuildHook(nil), e.hooks...)
	e.hooksMu.RUnlock()

	for _, hook := range hooks {
		hook(ctx, result)
	}
}
