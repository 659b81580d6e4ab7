// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"path/filepath"
	"sort"
)

type (
	// Owner pairs an owning unit's root directory with the corpus
	// directory scanned for it. When a scan root is itself a "templates"
	// directory, the owner root is its parent, so collected assets land
	// next to the templates rather than inside them.
	Owner struct {
		// Root is the directory collected assets install under.
		Root string
		// Corpus is the directory scanned for references.
		Corpus string
	}

	// OwnerScan is one owner's grouped scan result.
	OwnerScan struct {
		// Root is the owner's install target directory.
		Root string
		// Refs maps namespace to the sorted distinct names used.
		Refs map[string][]string
	}
)

// ResolveOwners maps scan roots to owner units. Roots are resolved and
// deduplicated by corpus path; missing directories are dropped.
func ResolveOwners(roots []string) []Owner {
	seen := make(map[string]struct{}, len(roots))
	out := make([]Owner, 0, len(roots))
	for _, root := range roots {
		resolved, ok := resolveDir(root)
		if !ok {
			continue
		}
		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}

		owner := Owner{Root: resolved, Corpus: resolved}
		if filepath.Base(resolved) == "templates" {
			owner.Root = filepath.Dir(resolved)
		}
		out = append(out, owner)
	}
	return out
}

// ScanPerOwner scans each root's corpus and groups the references per
// owner unit. Two roots resolving to the same owner are merged, so a
// reference shared by their corpora is counted once. Owners whose corpus
// uses no icons are omitted. Results are sorted by owner root.
func ScanPerOwner(roots []string, extensions []string, defaultNamespace string) []OwnerScan {
	merged := make(map[string]map[string]map[string]struct{})
	for _, owner := range ResolveOwners(roots) {
		refs := ScanDir(owner.Corpus, extensions)
		if len(refs) == 0 {
			continue
		}

		bucket := merged[owner.Root]
		if bucket == nil {
			bucket = make(map[string]map[string]struct{})
			merged[owner.Root] = bucket
		}
		for namespace, names := range GroupByNamespace(refs, defaultNamespace) {
			if bucket[namespace] == nil {
				bucket[namespace] = make(map[string]struct{})
			}
			for _, name := range names {
				bucket[namespace][name] = struct{}{}
			}
		}
	}

	out := make([]OwnerScan, 0, len(merged))
	for root, namespaces := range merged {
		refs := make(map[string][]string, len(namespaces))
		for namespace, names := range namespaces {
			refs[namespace] = sortedSet(names)
		}
		out = append(out, OwnerScan{Root: root, Refs: refs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Root < out[j].Root })
	return out
}
