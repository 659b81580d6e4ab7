// SPDX-License-Identifier: MPL-2.0

// Package boltstore implements the persistent cache tier on a bbolt
// key/value file. Entries are JSON envelopes carrying their expiry time;
// an expired entry reads as absent and is removed lazily.
package boltstore

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"glyphkit/pkg/icons"
)

const iconBucket = "icons"

var _ icons.Store = (*Store)(nil)

type (
	// Store is a bbolt-backed icons.Store.
	Store struct {
		db  *bbolt.DB
		now func() time.Time
	}

	// envelope wraps a cached value with its expiry time. A zero ExpiresAt
	// means the entry never expires.
	envelope struct {
		Value     []byte    `json:"value"`
		ExpiresAt time.Time `json:"expires_at,omitzero"`
	}
)

// Open opens (creating if needed) the cache database at path. Opening a
// file another process holds locked fails after a one second timeout.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache store path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	store := &Store{db: db, now: time.Now}
	if err := store.ensureBucket(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the value for key, or absent when the key is unknown or its
// entry has expired.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var (
		value   []byte
		found   bool
		expired bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(iconBucket))
		if bucket == nil {
			return fmt.Errorf("icons bucket is missing")
		}
		payload := bucket.Get([]byte(key))
		if payload == nil {
			return nil
		}
		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			return fmt.Errorf("unmarshal cache entry: %w", err)
		}
		if !env.ExpiresAt.IsZero() && !s.now().Before(env.ExpiresAt) {
			expired = true
			return nil
		}
		value = append([]byte(nil), env.Value...)
		found = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if expired {
		// Lazy removal keeps reads cheap; failures just leave the entry for
		// the next pass.
		_ = s.Delete(ctx, key)
	}
	return value, found, nil
}

// Set records value under key with the given lifetime. A non-positive ttl
// stores the entry without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := envelope{Value: value}
	if ttl > 0 {
		env.ExpiresAt = s.now().Add(ttl)
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(iconBucket))
		if bucket == nil {
			return fmt.Errorf("icons bucket is missing")
		}
		return bucket.Put([]byte(key), payload)
	})
}

// Delete removes the entry for key. Deleting an unknown key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(iconBucket))
		if bucket == nil {
			return fmt.Errorf("icons bucket is missing")
		}
		return bucket.Delete([]byte(key))
	})
}

// Clear drops every cached entry.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(iconBucket)); err != nil {
			return fmt.Errorf("drop icons bucket: %w", err)
		}
		_, err := tx.CreateBucket([]byte(iconBucket))
		return err
	})
}

func (s *Store) ensureBucket() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(iconBucket))
		if err != nil {
			return fmt.Errorf("create icons bucket: %w", err)
		}
		return nil
	})
}
