// SPDX-License-Identifier: MPL-2.0

package icons

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"glyphkit/pkg/iconref"
)

// Binding priorities. Explicit user directories always outrank
// auto-discovered packs for the same namespace, regardless of the order
// they were registered in.
const (
	// PriorityUser is the priority for custom per-namespace directories.
	PriorityUser = 100
	// PriorityPack is the priority for auto-discovered installed packs.
	PriorityPack = 50
)

// Registry defaults, overridable through Options.
const (
	// DefaultNamespace is the namespace assumed for bare references.
	DefaultNamespace = "ion"
	// DefaultCacheCapacity bounds the in-process cache tier.
	DefaultCacheCapacity = 1000
	// DefaultCacheTTL is the persistent-tier entry lifetime.
	DefaultCacheTTL = 24 * time.Hour
)

type (
	// Registry is the central resolution engine. It owns an ordered table of
	// namespace-to-source bindings, an alias table, and the two-tier cache.
	// Resolve may be called concurrently; registration is expected to happen
	// during startup but is safe at any time.
	Registry struct {
		mu       sync.RWMutex
		bindings map[string][]binding
		aliases  map[string]iconref.Ref

		cache *cache

		defaultNamespace string
		silentMissing    bool

		// construction-time cache settings, consumed by NewRegistry
		capacity int
		store    Store
		ttl      time.Duration
	}

	// binding pairs a source with its priority within one namespace.
	binding struct {
		source   Source
		priority int
	}

	// Option configures a Registry during construction.
	Option func(*Registry)
)

// WithDefaultNamespace sets the namespace assumed for bare references.
func WithDefaultNamespace(namespace string) Option {
	return func(r *Registry) { r.defaultNamespace = namespace }
}

// WithSilentMissing controls the missing-icon policy: when true (the
// default), resolving an unknown reference returns an empty string; when
// false it returns a NotFoundError.
func WithSilentMissing(silent bool) Option {
	return func(r *Registry) { r.silentMissing = silent }
}

// WithCacheCapacity bounds the in-process cache tier. Capacity must be at
// least 1; NewRegistry fails otherwise.
func WithCacheCapacity(capacity int) Option {
	return func(r *Registry) { r.capacity = capacity }
}

// WithStore enables the persistent cache tier. Entries written to the store
// carry the given lifetime; zero means DefaultCacheTTL.
func WithStore(store Store, ttl time.Duration) Option {
	return func(r *Registry) {
		r.store = store
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// NewRegistry builds an empty registry. Bind sources with RegisterSource,
// then resolve references with Resolve.
func NewRegistry(opts ...Option) (*Registry, error) {
	r := &Registry{
		bindings:         make(map[string][]binding),
		aliases:          make(map[string]iconref.Ref),
		defaultNamespace: DefaultNamespace,
		silentMissing:    true,
		capacity:         DefaultCacheCapacity,
		ttl:              DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(r)
	}

	cache, err := newCache(r.capacity, r.store, r.ttl)
	if err != nil {
		return nil, err
	}
	r.cache = cache

	return r, nil
}

// DefaultNamespace returns the namespace assumed for bare references.
func (r *Registry) DefaultNamespace() string { return r.defaultNamespace }

// RegisterSource binds src under namespace at the given priority. Higher
// priorities are consulted first; among equal priorities the most recently
// registered source wins. Registration never touches the cache.
func (r *Registry) RegisterSource(namespace string, src Source, priority int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chain := r.bindings[namespace]
	idx := sort.Search(len(chain), func(i int) bool {
		return chain[i].priority <= priority
	})
	chain = append(chain, binding{})
	copy(chain[idx+1:], chain[idx:])
	chain[idx] = binding{source: src, priority: priority}
	r.bindings[namespace] = chain
}

// RegisterAlias maps alias to the reference its target spec parses to. The
// target may be bare, in which case it takes the default namespace. A target
// with an empty name part fails with an InvalidAliasError.
//
// Aliases are single-hop: Resolve substitutes an alias exactly once and
// never chases a target that happens to collide with another alias key.
func (r *Registry) RegisterAlias(alias, target string) error {
	ref, err := iconref.Parse(target, r.defaultNamespace)
	if err != nil {
		return &InvalidAliasError{Alias: alias, Target: target}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = ref
	return nil
}

// Resolve resolves a raw "[namespace:]name" reference to its markup.
//
// The literal raw string is first checked against the alias table (single
// hop), then the cache, then the sources bound to the namespace in priority
// order. The winning markup is written through the cache; a confirmed miss
// is cached as a tombstone. Source I/O faults are logged and treated as
// absent. The final outcome for an unresolvable reference follows the
// silent-missing policy: an empty string, or a NotFoundError naming the
// reference.
func (r *Registry) Resolve(ctx context.Context, raw string) (string, error) {
	ref, refErr := r.lookupRef(raw)
	if refErr != nil {
		if r.silentMissing {
			return "", nil
		}
		return "", refErr
	}

	key := ref.String()
	if entry, ok := r.cache.get(ctx, key); ok {
		return r.finish(ref, entry)
	}

	entry := cacheEntry{Missing: true}
	for _, b := range r.chainFor(ref.Namespace) {
		markup, found, err := b.source.Resolve(ref.Name)
		if err != nil {
			slog.Warn("icon source failed, treating as absent",
				"namespace", ref.Namespace, "name", ref.Name, "error", err)
			continue
		}
		if found {
			entry = cacheEntry{Markup: markup}
			break
		}
	}

	r.cache.put(ctx, key, entry)
	return r.finish(ref, entry)
}

// lookupRef turns the raw reference into the Ref to resolve, applying the
// alias table at most once.
func (r *Registry) lookupRef(raw string) (iconref.Ref, error) {
	r.mu.RLock()
	target, isAlias := r.aliases[raw]
	r.mu.RUnlock()
	if isAlias {
		return target, nil
	}
	return iconref.Parse(raw, r.defaultNamespace)
}

// chainFor snapshots the binding chain for a namespace so source I/O runs
// outside the registry lock.
func (r *Registry) chainFor(namespace string) []binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain := r.bindings[namespace]
	out := make([]binding, len(chain))
	copy(out, chain)
	return out
}

// finish maps a cache entry onto the resolve result per the missing policy.
func (r *Registry) finish(ref iconref.Ref, entry cacheEntry) (string, error) {
	if !entry.Missing {
		return entry.Markup, nil
	}
	if r.silentMissing {
		return "", nil
	}
	return "", &NotFoundError{Ref: ref}
}

// Invalidate drops the cache entry for one reference key ("namespace:name")
// from both tiers immediately.
func (r *Registry) Invalidate(ctx context.Context, key string) {
	r.cache.invalidate(ctx, key)
}

// ClearCache empties both cache tiers immediately.
func (r *Registry) ClearCache(ctx context.Context) {
	r.cache.clear(ctx)
}

// Namespaces returns the sorted namespaces that have at least one binding.
func (r *Registry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.bindings))
	for namespace := range r.bindings {
		out = append(out, namespace)
	}
	sort.Strings(out)
	return out
}

// Names returns the sorted, deduplicated icon names available under a
// namespace, gathered from bound sources that implement Lister. Listing
// faults are logged and skipped, matching resolution's failure semantics.
func (r *Registry) Names(namespace string) []string {
	seen := make(map[string]struct{})
	for _, b := range r.chainFor(namespace) {
		lister, ok := b.source.(Lister)
		if !ok {
			continue
		}
		names, err := lister.Names()
		if err != nil {
			slog.Warn("icon source listing failed, skipping",
				"namespace", namespace, "error", err)
			continue
		}
		for _, name := range names {
			seen[name] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Close releases the persistent cache tier, if any.
func (r *Registry) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}
