// SPDX-License-Identifier: MPL-2.0

// Package icons implements the icon resolution engine: a registry of
// namespace-to-source bindings with an alias table and a two-tier cache.
//
// A host application builds a Registry once at startup, binds sources
// (custom directories, installed packs) under namespaces, and then resolves
// "[namespace:]name" references concurrently at render time:
//
//	reg, err := icons.NewRegistry(
//	    icons.WithDefaultNamespace("ion"),
//	    icons.WithCacheCapacity(1000),
//	)
//	if err != nil {
//	    return err
//	}
//	reg.RegisterSource("ion", icons.NewDirSource("/srv/icons/ion"), icons.PriorityUser)
//
//	svg, err := reg.Resolve(ctx, "ion:home")
//
// Resolution checks the cache first, then consults the sources bound to the
// reference's namespace in priority order. Confirmed misses are cached as
// tombstones so repeated lookups of an unknown reference stay cheap. Source
// I/O faults are logged and treated as absent; they never abort the chain.
package icons
