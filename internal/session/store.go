// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

// Package session persists questionnaire sessions between chat turns.
//
// Three backends implement Store: MemoryStore for development and tests,
// BadgerStore for durability on a single node, and RedisStore when several
// replicas share sessions. NewStore picks one from the session config section.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/beautyflow/internal/recommend"
)

// Store errors.
var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExists is returned by Create for a duplicate id.
	ErrSessionExists = errors.New("session already exists")

	// ErrStaleSession is returned by Update when another turn advanced the
	// session after it was read. It wraps recommend.ErrInvalidState.
	ErrStaleSession = fmt.Errorf("%w: session was advanced by another request", recommend.ErrInvalidState)
)

// Store persists conversation sessions.
type Store interface {
	// Create stores a new session. An empty ID is replaced by a fresh UUID
	// and a zero ExpiresAt is set from the store TTL.
	Create(ctx context.Context, s *recommend.Session) error

	// Get returns the session, or ErrSessionNotFound if it is absent or expired.
	Get(ctx context.Context, id string) (*recommend.Session, error)

	// Update stores the session produced by one Advance and extends its
	// expiry. The stored step must be exactly one behind s.Step, otherwise
	// ErrStaleSession is returned and nothing is written.
	Update(ctx context.Context, s *recommend.Session) error

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error

	// CleanupExpired removes expired sessions and returns how many were removed.
	CleanupExpired(ctx context.Context) (int, error)

	// Count returns the number of stored sessions, expired ones included.
	Count(ctx context.Context) (int, error)

	Close() error
}

// prepareNew assigns an id and expiry to a session about to be created.
func prepareNew(s *recommend.Session, ttl time.Duration) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.ExpiresAt.IsZero() && ttl > 0 {
		s.ExpiresAt = time.Now().UTC().Add(ttl)
	}
	return nil
}

// checkAdvance verifies that next is the direct successor of stored.
func checkAdvance(stored, next *recommend.Session) error {
	if stored.Step != next.Step-1 {
		return fmt.Errorf("%w: stored step %d, update step %d", ErrStaleSession, stored.Step, next.Step)
	}
	return nil
}

// extend pushes the expiry of an updated session forward by ttl.
func extend(s *recommend.Session, ttl time.Duration) {
	if ttl > 0 {
		s.ExpiresAt = time.Now().UTC().Add(ttl)
	}
}
