// SPDX-License-Identifier: MPL-2.0

// Package sqlitestore implements the persistent cache tier on a SQLite
// file. Each row carries a millisecond expiry timestamp; an expired row
// reads as absent and is removed lazily.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"glyphkit/pkg/icons"
)

var _ icons.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS icon_cache (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	expires_at_ms INTEGER NOT NULL DEFAULT 0
);
`

// Store is a SQLite-backed icons.Store.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens (creating if needed) the cache database at path and ensures
// the schema exists. The connection uses WAL journaling and a busy
// timeout so concurrent invocations queue instead of failing.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache store path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ensure icon_cache table: %w", err)
	}

	return &Store{sqlDB: sqlDB, now: time.Now}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Get returns the value for key, or absent when the key is unknown or its
// row has expired.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var (
		value     []byte
		expiresAt int64
	)
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT value, expires_at_ms
FROM icon_cache
WHERE key = ?
`, key)
	if err := row.Scan(&value, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	if expiresAt > 0 && s.now().UnixMilli() >= expiresAt {
		// Lazy removal keeps reads cheap; failures just leave the row for
		// the next pass.
		_, _ = s.sqlDB.ExecContext(ctx, `DELETE FROM icon_cache WHERE key = ?`, key)
		return nil, false, nil
	}
	return value, true, nil
}

// Set records value under key with the given lifetime. A non-positive ttl
// stores the row without expiry.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).UnixMilli()
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO icon_cache (key, value, expires_at_ms)
VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET
	value = excluded.value,
	expires_at_ms = excluded.expires_at_ms
`, key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Delete removes the row for key. Deleting an unknown key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM icon_cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// Clear drops every cached row.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM icon_cache`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}
