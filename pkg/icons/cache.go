// SPDX-License-Identifier: MPL-2.0

package icons

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is the pluggable persistent cache tier. Implementations own entry
// expiry: Set records the entry with the given lifetime and Get reports an
// expired or unknown key as absent. Concurrency guarantees follow the
// backing store's own contract; the engine assumes last write wins.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}

// cacheEntry is the unit the cache holds per reference key. Missing marks a
// tombstone: a confirmed miss cached so that repeated lookups of an unknown
// reference skip the source chain. Tombstones follow the same eviction and
// TTL rules as hits.
type cacheEntry struct {
	Markup  string `json:"markup,omitempty"`
	Missing bool   `json:"missing,omitempty"`
}

// cache is the two-tier engine: a bounded in-process LRU in front of an
// optional persistent Store. The LRU structure serializes its own access;
// both reads and writes count as use for eviction ordering.
type cache struct {
	mem   *lru.Cache[string, cacheEntry]
	store Store
	ttl   time.Duration
}

func newCache(capacity int, store Store, ttl time.Duration) (*cache, error) {
	mem, err := lru.New[string, cacheEntry](capacity)
	if err != nil {
		return nil, err
	}
	return &cache{mem: mem, store: store, ttl: ttl}, nil
}

// get checks tier 1, then tier 2. A tier-2 hit is promoted into tier 1.
// Store faults degrade to a miss so resolution can fall through to sources.
func (c *cache) get(ctx context.Context, key string) (cacheEntry, bool) {
	if entry, ok := c.mem.Get(key); ok {
		return entry, true
	}
	if c.store == nil {
		return cacheEntry{}, false
	}

	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		slog.Warn("persistent cache read failed", "key", key, "error", err)
		return cacheEntry{}, false
	}
	if !found {
		return cacheEntry{}, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		slog.Warn("persistent cache entry is corrupt, dropping", "key", key, "error", err)
		if delErr := c.store.Delete(ctx, key); delErr != nil {
			slog.Warn("persistent cache delete failed", "key", key, "error", delErr)
		}
		return cacheEntry{}, false
	}

	c.mem.Add(key, entry)
	return entry, true
}

// put writes through both tiers. An update replaces the previous entry for
// the key in place.
func (c *cache) put(ctx context.Context, key string, entry cacheEntry) {
	c.mem.Add(key, entry)
	if c.store == nil {
		return
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		slog.Warn("persistent cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		slog.Warn("persistent cache write failed", "key", key, "error", err)
	}
}

// invalidate removes one key from both tiers immediately.
func (c *cache) invalidate(ctx context.Context, key string) {
	c.mem.Remove(key)
	if c.store == nil {
		return
	}
	if err := c.store.Delete(ctx, key); err != nil {
		slog.Warn("persistent cache delete failed", "key", key, "error", err)
	}
}

// clear empties both tiers immediately.
func (c *cache) clear(ctx context.Context) {
	c.mem.Purge()
	if c.store == nil {
		return
	}
	if err := c.store.Clear(ctx); err != nil {
		slog.Warn("persistent cache clear failed", "error", err)
	}
}
