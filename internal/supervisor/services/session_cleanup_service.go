// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/beautyflow/internal/logging"
	"github.com/tomtom215/beautyflow/internal/metrics"
)

// SessionSweeper is the part of session.Store the cleanup loop needs.
type SessionSweeper interface {
	CleanupExpired(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// valueLogCollector is implemented by session.BadgerStore.
type valueLogCollector interface {
	RunValueLogGC(discardRatio float64) error
}

// DefaultValueLogDiscardRatio is passed to badger value log GC after each sweep.
const DefaultValueLogDiscardRatio = 0.5

// SessionCleanupService periodically removes expired questionnaire sessions
// and publishes the remaining session count.
type SessionCleanupService struct {
	store    SessionSweeper
	interval time.Duration
	logger   zerolog.Logger
}

// NewSessionCleanupService creates the sweeper. A non-positive interval means 15m.
func NewSessionCleanupService(store SessionSweeper, interval time.Duration) *SessionCleanupService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &SessionCleanupService{
		store:    store,
		interval: interval,
		logger:   logging.With().Str("service", "session-cleanup").Logger(),
	}
}

// Serve implements suture.Service. Sweep failures are logged and retried on
// the next tick.
func (s *SessionCleanupService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("session cleanup running")

	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one cleanup pass and returns the number of removed sessions.
func (s *SessionCleanupService) Sweep(ctx context.Context) int {
	removed, err := s.store.CleanupExpired(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("session cleanup failed")
		return 0
	}

	if n, err := s.store.Count(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("session count failed")
	} else {
		metrics.ChatSessionsActive.Set(float64(n))
	}

	if removed > 0 {
		s.logger.Debug().Int("removed", removed).Msg("expired sessions removed")
		if gc, ok := s.store.(valueLogCollector); ok {
			if err := gc.RunValueLogGC(DefaultValueLogDiscardRatio); err != nil {
				s.logger.Warn().Err(err).Msg("session value log GC failed")
			}
		}
	}
	return removed
}

// String names the service in supervisor events.
func (s *SessionCleanupService) String() string {
	return "session-cleanup"
}
