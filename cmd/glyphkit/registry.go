// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"glyphkit/internal/config"
	"glyphkit/internal/issue"
	"glyphkit/pkg/icons"
	"glyphkit/pkg/icons/boltstore"
	"glyphkit/pkg/icons/packs"
	"glyphkit/pkg/icons/sqlitestore"
)

// Persistent cache database filenames inside cache.path.
const (
	boltCacheFile   = "cache.db"
	sqliteCacheFile = "cache.sqlite"
)

// openStore opens the persistent cache tier selected by cache.store.
// StoreNone yields a nil store, which disables the tier.
func openStore(cfg *config.Config) (icons.Store, error) {
	switch cfg.Cache.Store {
	case config.StoreBolt:
		if err := os.MkdirAll(cfg.Cache.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		st, err := boltstore.Open(filepath.Join(cfg.Cache.Path, boltCacheFile))
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.StoreSQLite:
		if err := os.MkdirAll(cfg.Cache.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		st, err := sqlitestore.Open(filepath.Join(cfg.Cache.Path, sqliteCacheFile))
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, nil
	}
}

// buildRegistry maps the effective configuration onto a bootstrapped
// registry. A persistent store that fails to open degrades to in-memory
// caching with a warning instead of aborting the command. The returned
// cleanup closes the registry and, through it, the store.
func buildRegistry(app *App, cfg *config.Config) (*icons.Registry, func(), error) {
	store, err := openStore(cfg)
	if err != nil {
		rendered, renderErr := issue.Get(issue.CacheStoreFailedId).Render("dark")
		if renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
		slog.Warn("persistent cache store unavailable, continuing in-memory",
			"store", cfg.Cache.Store, "error", err)
		store = nil
	}

	opts := icons.BootstrapOptions{
		DefaultNamespace: cfg.DefaultNamespace,
		SilentMissing:    cfg.SilentMissing,
		CacheCapacity:    cfg.Cache.Capacity,
		CacheTTL:         cfg.Cache.TTLDuration(),
		Store:            store,
		IconDirs:         cfg.IconDirs,
		Aliases:          cfg.Aliases,
	}
	if cfg.AutoDiscover {
		opts.Discover = []icons.DiscoverFunc{packs.Discoverer(cfg.PacksDir, cfg.Packs)}
	}

	reg, err := icons.Bootstrap(opts)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		if cerr := reg.Close(); cerr != nil {
			slog.Warn("closing icon registry", "error", cerr)
		}
	}
	return reg, cleanup, nil
}
