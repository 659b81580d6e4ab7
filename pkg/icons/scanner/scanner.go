// SPDX-License-Identifier: MPL-2.0

// Package scanner discovers which icon references a template corpus
// actually uses, so collection can fetch exactly that set.
//
// References are template tags of the form
//
//	{% icon "ns:name" %}
//	{% icon 'name' %}
//
// with either quote style. Scanning is best-effort: unreadable files and
// missing directories are skipped, never fatal.
package scanner

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"glyphkit/pkg/iconref"
)

// refPattern captures the quoted reference of an icon template tag.
var refPattern = regexp.MustCompile(`\{%\s*icon\s+["']([^"']+)["']`)

// ExtractRefs returns the distinct icon references in text, sorted.
func ExtractRefs(text string) []string {
	seen := make(map[string]struct{})
	for _, match := range refPattern.FindAllStringSubmatch(text, -1) {
		seen[match[1]] = struct{}{}
	}
	return sortedSet(seen)
}

// ScanDir recursively scans root for references in files whose extension
// is in extensions (given with the leading dot). A missing root yields an
// empty result.
func ScanDir(root string, extensions []string) []string {
	seen := make(map[string]struct{})
	scanDirInto(root, extensions, seen)
	return sortedSet(seen)
}

// ScanCorpus scans every root and unions the results. Roots are
// deduplicated by resolved path first so a symlinked or doubly-listed
// directory is walked once.
func ScanCorpus(roots []string, extensions []string) []string {
	seen := make(map[string]struct{})
	for _, root := range dedupeRoots(roots) {
		scanDirInto(root, extensions, seen)
	}
	return sortedSet(seen)
}

// GroupByNamespace buckets references by namespace, applying
// defaultNamespace to bare names. Malformed references are skipped.
func GroupByNamespace(refs []string, defaultNamespace string) map[string][]string {
	buckets := make(map[string]map[string]struct{})
	for _, raw := range refs {
		ref, err := iconref.Parse(raw, defaultNamespace)
		if err != nil {
			slog.Warn("skipping malformed icon reference", "ref", raw)
			continue
		}
		if buckets[ref.Namespace] == nil {
			buckets[ref.Namespace] = make(map[string]struct{})
		}
		buckets[ref.Namespace][ref.Name] = struct{}{}
	}

	grouped := make(map[string][]string, len(buckets))
	for namespace, names := range buckets {
		grouped[namespace] = sortedSet(names)
	}
	return grouped
}

func scanDirInto(root string, extensions []string, seen map[string]struct{}) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			return nil
		}
		if d.IsDir() || !matchesExt(path, extensions) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		for _, match := range refPattern.FindAllSubmatch(data, -1) {
			seen[string(match[1])] = struct{}{}
		}
		return nil
	})
}

func matchesExt(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	for _, allowed := range extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// dedupeRoots resolves each root and drops duplicates and directories
// that do not exist, preserving first-seen order.
func dedupeRoots(roots []string) []string {
	seen := make(map[string]struct{}, len(roots))
	out := make([]string, 0, len(roots))
	for _, root := range roots {
		resolved, ok := resolveDir(root)
		if !ok {
			continue
		}
		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}
		out = append(out, resolved)
	}
	return out
}

// resolveDir returns the symlink-resolved absolute path of root, or false
// when root does not exist or is not a directory.
func resolveDir(root string) (string, bool) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", false
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return resolved, true
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
