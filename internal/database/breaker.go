// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/beautyflow/internal/logging"
	"github.com/tomtom215/beautyflow/internal/metrics"
	"github.com/tomtom215/beautyflow/internal/recommend"
)

// BreakerSettings tunes the profile store circuit breaker.
type BreakerSettings struct {
	Name string

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32

	// Interval resets the failure counts while closed.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// ConsecutiveFailures trips the breaker.
	ConsecutiveFailures uint32
}

// DefaultBreakerSettings returns the production breaker tuning.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:                "profile-store",
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 3,
	}
}

// BreakerSource guards a ProfileSource with a circuit breaker so that a
// failing store does not absorb every rebuild attempt.
//
// An empty table is not a store failure: loads that fail with
// recommend.ErrDataUnavailable are passed through without counting against
// the breaker.
type BreakerSource struct {
	source recommend.ProfileSource
	cb     *gobreaker.CircuitBreaker[any]
	name   string
}

var _ recommend.ProfileSource = (*BreakerSource)(nil)

// NewBreakerSource wraps source.
func NewBreakerSource(source recommend.ProfileSource, settings BreakerSettings) *BreakerSource {
	name := settings.Name
	if name == "" {
		name = DefaultBreakerSettings().Name
	}
	threshold := settings.ConsecutiveFailures
	if threshold == 0 {
		threshold = DefaultBreakerSettings().ConsecutiveFailures
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			trip := counts.ConsecutiveFailures >= threshold
			if trip {
				logging.Warn().Str("breaker", name).Uint32("consecutive_failures", counts.ConsecutiveFailures).Msg("Opening circuit")
			}
			return trip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("Circuit breaker state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, recommend.ErrDataUnavailable) || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerSource{source: source, cb: cb, name: name}
}

// State reports the current breaker state.
func (b *BreakerSource) State() gobreaker.State {
	return b.cb.State()
}

// LoadUsers loads profiles through the breaker.
func (b *BreakerSource) LoadUsers(ctx context.Context) ([]recommend.UserProfile, error) {
	return castResult[[]recommend.UserProfile](b.execute(func() (any, error) {
		return b.source.LoadUsers(ctx)
	}))
}

// LoadProducts loads the catalog through the breaker.
func (b *BreakerSource) LoadProducts(ctx context.Context) ([]recommend.Product, error) {
	return castResult[[]recommend.Product](b.execute(func() (any, error) {
		return b.source.LoadProducts(ctx)
	}))
}

func (b *BreakerSource) execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, fmt.Errorf("profile store unavailable (%v): %w", err, recommend.ErrDataUnavailable)
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return result, nil
}

func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
