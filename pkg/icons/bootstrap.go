// SPDX-License-Identifier: MPL-2.0

package icons

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"
)

type (
	// DiscoverFunc registers auto-discovered sources on a registry. The
	// packs package provides one per installed-pack root; hosts can supply
	// their own.
	DiscoverFunc func(*Registry) error

	// BootstrapOptions captures the startup configuration Bootstrap wires
	// into a registry. The CLI maps its config file onto this struct;
	// library hosts fill it directly.
	BootstrapOptions struct {
		// DefaultNamespace is the namespace assumed for bare references.
		// Empty means DefaultNamespace.
		DefaultNamespace string
		// SilentMissing selects the missing-icon policy.
		SilentMissing bool
		// CacheCapacity bounds the in-process cache tier. Zero means
		// DefaultCacheCapacity.
		CacheCapacity int
		// CacheTTL is the persistent-tier entry lifetime. Zero means
		// DefaultCacheTTL.
		CacheTTL time.Duration
		// Store enables the persistent cache tier when non-nil.
		Store Store
		// IconDirs binds custom directories by namespace at PriorityUser,
		// ahead of anything discovery registers.
		IconDirs map[string]string
		// Discover runs after IconDirs and before Aliases, in order.
		Discover []DiscoverFunc
		// Aliases maps shortcut names to "namespace:name" target specs.
		Aliases map[string]string
	}
)

// Bootstrap builds the production registry in startup order: custom
// directory bindings first (highest priority), then discovery, then
// aliases. A configured directory that does not exist is skipped with a
// warning; a malformed alias target is a fatal configuration error.
func Bootstrap(opts BootstrapOptions) (*Registry, error) {
	var regOpts []Option
	if opts.DefaultNamespace != "" {
		regOpts = append(regOpts, WithDefaultNamespace(opts.DefaultNamespace))
	}
	if opts.CacheCapacity > 0 {
		regOpts = append(regOpts, WithCacheCapacity(opts.CacheCapacity))
	}
	if opts.Store != nil {
		regOpts = append(regOpts, WithStore(opts.Store, opts.CacheTTL))
	}
	regOpts = append(regOpts, WithSilentMissing(opts.SilentMissing))

	reg, err := NewRegistry(regOpts...)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	for _, namespace := range sortedKeys(opts.IconDirs) {
		dir := opts.IconDirs[namespace]
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			slog.Warn("configured icon directory is missing, skipping",
				"namespace", namespace, "dir", dir)
			continue
		}
		reg.RegisterSource(namespace, NewDirSource(dir), PriorityUser)
	}

	for _, discover := range opts.Discover {
		if err := discover(reg); err != nil {
			return nil, fmt.Errorf("discover sources: %w", err)
		}
	}

	for _, alias := range sortedKeys(opts.Aliases) {
		if err := reg.RegisterAlias(alias, opts.Aliases[alias]); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// sortedKeys keeps registration order deterministic across runs.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
