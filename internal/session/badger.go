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

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/beautyflow/internal/logging"
	"github.com/tomtom215/beautyflow/internal/recommend"
)

const sessionKeyPrefix = "chat_session:"

// BadgerStore persists sessions in BadgerDB as JSON values.
//
// Entries carry a Badger TTL slightly past ExpiresAt, so the value log
// garbage collector reclaims abandoned sessions even if CleanupExpired
// never runs.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration

	// owned is true when the store opened db itself and must close it.
	owned bool
}

var _ Store = (*BadgerStore)(nil)

// OpenBadgerStore opens a BadgerDB at path.
func OpenBadgerStore(path string, ttl time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for sessions: %w", err)
	}

	s := NewBadgerStore(db, ttl)
	s.owned = true
	return s, nil
}

// NewBadgerStore wraps an already opened BadgerDB. Close leaves db open.
func NewBadgerStore(db *badger.DB, ttl time.Duration) *BadgerStore {
	return &BadgerStore{db: db, ttl: ttl}
}

func sessionKey(id string) []byte {
	return []byte(sessionKeyPrefix + id)
}

func (b *BadgerStore) entry(s *recommend.Session) (*badger.Entry, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	e := badger.NewEntry(sessionKey(s.ID), data)
	if !s.ExpiresAt.IsZero() {
		// One minute of slack keeps the record visible to CleanupExpired.
		if ttl := time.Until(s.ExpiresAt) + time.Minute; ttl > 0 {
			e = e.WithTTL(ttl)
		}
	}
	return e, nil
}

func (b *BadgerStore) Create(_ context.Context, s *recommend.Session) error {
	if err := prepareNew(s, b.ttl); err != nil {
		return err
	}
	e, err := b.entry(s)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(e.Key); err == nil {
			return fmt.Errorf("%w: %s", ErrSessionExists, s.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get session: %w", err)
		}
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("set session: %w", err)
		}
		return nil
	})
}

func (b *BadgerStore) Get(_ context.Context, id string) (*recommend.Session, error) {
	var s recommend.Session

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &s)
		})
	})
	if err != nil {
		return nil, err
	}

	if s.IsExpired() {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (b *BadgerStore) Update(_ context.Context, s *recommend.Session) error {
	return b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(s.ID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}

		var existing recommend.Session
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &existing)
		}); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		if existing.IsExpired() {
			return ErrSessionNotFound
		}
		if err := checkAdvance(&existing, s); err != nil {
			return err
		}

		extend(s, b.ttl)
		e, err := b.entry(s)
		if err != nil {
			return err
		}
		return txn.SetEntry(e)
	})
}

func (b *BadgerStore) Delete(_ context.Context, id string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(sessionKey(id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

func (b *BadgerStore) CleanupExpired(ctx context.Context) (int, error) {
	var expired [][]byte

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			item := it.Item()

			var s recommend.Session
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &s)
			}); err != nil {
				logging.Warn().Str("key", string(item.Key())).Err(err).Msg("Removing undecodable session record")
				expired = append(expired, item.KeyCopy(nil))
				continue
			}
			if s.IsExpired() {
				expired = append(expired, item.KeyCopy(nil))
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan sessions: %w", err)
	}

	removed := 0
	for _, key := range expired {
		err := b.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		})
		if err != nil {
			logging.Warn().Str("key", string(key)).Err(err).Msg("Failed to delete expired session")
			continue
		}
		removed++
	}
	return removed, nil
}

func (b *BadgerStore) Count(_ context.Context) (int, error) {
	count := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// RunValueLogGC reclaims space from deleted and expired entries. It returns
// nil when there was nothing to collect.
func (b *BadgerStore) RunValueLogGC(discardRatio float64) error {
	err := b.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
		return nil
	}
	return err
}

func (b *BadgerStore) Close() error {
	if b.owned {
		return b.db.Close()
	}
	return nil
}
