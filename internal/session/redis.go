// Beautyflow - Beauty Retail Recommendation and Conversational Profiling
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/beautyflow

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/beautyflow/internal/logging"
	"github.com/tomtom215/beautyflow/internal/recommend"
)

// redisScanCount is the COUNT hint for SCAN during cleanup and counting.
const redisScanCount = 200

// RedisStore persists sessions in Redis as JSON strings under
// chat_session:<id>. Keys expire one minute after the session, so
// CleanupExpired mostly finds nothing to do.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string

	// owned is true when the store created client and must close it.
	owned bool
}

var _ Store = (*RedisStore)(nil)

// OpenRedisStore connects to the redis:// URL and pings the server.
func OpenRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse session redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to session redis: %w", err)
	}

	s := NewRedisStore(client, ttl)
	s.owned = true
	return s, nil
}

// NewRedisStore wraps an existing client. Close leaves client open.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: sessionKeyPrefix}
}

func (r *RedisStore) key(id string) string {
	return r.prefix + id
}

// expiration is the Redis key TTL for s. Zero means no expiry.
func expiration(s *recommend.Session) time.Duration {
	if s.ExpiresAt.IsZero() {
		return 0
	}
	if ttl := time.Until(s.ExpiresAt) + time.Minute; ttl > 0 {
		return ttl
	}
	return time.Minute
}

func (r *RedisStore) Create(ctx context.Context, s *recommend.Session) error {
	if err := prepareNew(s, r.ttl); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.key(s.ID), data, expiration(s)).Result()
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionExists, s.ID)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*recommend.Session, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s recommend.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if s.IsExpired() {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

// Update writes the session inside a WATCH transaction on its key, so a
// concurrent write between the step check and the SET fails the update.
func (r *RedisStore) Update(ctx context.Context, s *recommend.Session) error {
	key := r.key(s.ID)
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		var existing recommend.Session
		if err := json.Unmarshal(data, &existing); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		if existing.IsExpired() {
			return ErrSessionNotFound
		}
		if err := checkAdvance(&existing, s); err != nil {
			return err
		}

		extend(s, r.ttl)
		next, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, expiration(s))
			return nil
		})
		if err != nil && !errors.Is(err, redis.TxFailedErr) {
			return fmt.Errorf("set session: %w", err)
		}
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return ErrStaleSession
	}
	return err
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) CleanupExpired(ctx context.Context) (int, error) {
	removed := 0
	iter := r.client.Scan(ctx, 0, r.prefix+"*", redisScanCount).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := r.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("get session: %w", err)
		}

		var s recommend.Session
		if err := json.Unmarshal(data, &s); err != nil {
			logging.Warn().Str("key", key).Err(err).Msg("Removing undecodable session record")
		} else if !s.IsExpired() {
			continue
		}

		if err := r.client.Del(ctx, key).Err(); err != nil {
			logging.Warn().Str("key", key).Err(err).Msg("Failed to delete expired session")
			continue
		}
		removed++
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan sessions: %w", err)
	}
	return removed, nil
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	count := 0
	iter := r.client.Scan(ctx, 0, r.prefix+"*", redisScanCount).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scan sessions: %w", err)
	}
	return count, nil
}

func (r *RedisStore) Close() error {
	if r.owned {
		return r.client.Close()
	}
	return nil
}
