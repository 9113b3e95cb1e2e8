// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package session

import (
	"context"
	"fmt"

	"github.com/tomtom215/beautyflow/internal/config"
)

// StoreType names a session backend.
type StoreType string

const (
	StoreMemory StoreType = "memory"
	StoreBadger StoreType = "badger"
	StoreRedis  StoreType = "redis"
)

// NewStore builds the backend named by cfg.Store. ctx bounds the initial
// connection to remote backends.
func NewStore(ctx context.Context, cfg *config.SessionConfig) (Store, error) {
	switch StoreType(cfg.Store) {
	case StoreMemory, "":
		return NewMemoryStore(cfg.TTL), nil
	case StoreBadger:
		return OpenBadgerStore(cfg.Path, cfg.TTL)
	case StoreRedis:
		return OpenRedisStore(ctx, cfg.RedisURL, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}
