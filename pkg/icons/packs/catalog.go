// SPDX-License-Identifier: MPL-2.0

// Package packs manages the bundled icon pack catalog.
//
// A pack is a versioned upstream icon library (Ionicons, Heroicons, and so
// on) installed as a flat directory of SVG files under a shared packs
// directory. Each pack declares where its SVGs live inside the upstream
// release archive, how upstream filenames map onto canonical icon names,
// and which CDN serves single icons for remote fetch.
//
// Pack layout on disk:
//
//	<packsDir>/<id>/icons/<name>.svg
//	<packsDir>/packs.toml
//
// Filenames are normalized once at install time, so run-time lookup is an
// exact match against the canonical name.
package packs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"glyphkit/pkg/types"
)

type (
	// StyleDir names one SVG location inside a pack's release archive.
	StyleDir struct {
		// Subpath is the slash-separated directory inside the archive
		// holding the SVG files.
		Subpath string
		// Style is the label passed to the pack's normalizer for files
		// found under Subpath. Single-style packs leave it empty.
		Style string
	}

	// Pack describes one supported icon pack.
	Pack struct {
		// ID is the pack identifier used for the install directory and
		// state file entries.
		ID string
		// Namespace is the icon reference namespace the pack binds to.
		Namespace string
		// DisplayName is the human-readable pack name.
		DisplayName string
		// Description is a short blurb shown by pack listings.
		Description types.DescriptionText
		// Version is the pinned upstream release.
		Version string
		// ArchiveURL is the upstream release zip.
		ArchiveURL string
		// StyleDirs lists the SVG locations extracted from the archive.
		StyleDirs []StyleDir
		// Normalize maps upstream filename stems to canonical icon names.
		Normalize NormalizeFunc
		// CDNTemplate is the single-icon fetch URL with a {name}
		// placeholder, used by the remote fetch fallback.
		CDNTemplate string
	}
)

// catalog is the closed set of supported packs, in display order.
var catalog = []Pack{
	{
		ID:          "ionicons",
		Namespace:   "ion",
		DisplayName: "Ionicons",
		Description: "Hand-crafted icons from the Ionic Framework team. Outline, filled, and sharp variants are part of the icon name.",
		Version:     "7.4.0",
		ArchiveURL:  "https://github.com/ionic-team/ionicons/archive/refs/tags/v7.4.0.zip",
		StyleDirs: []StyleDir{
			{Subpath: "ionicons-7.4.0/src/svg"},
		},
		Normalize:   NormalizeVerbatim,
		CDNTemplate: "https://cdn.jsdelivr.net/gh/ionic-team/ionicons@7.4.0/src/svg/{name}.svg",
	},
	{
		ID:          "heroicons",
		Namespace:   "hero",
		DisplayName: "Heroicons",
		Description: "SVG icons by the makers of Tailwind CSS, in outline, solid, and 20px mini styles.",
		Version:     "2.2.0",
		ArchiveURL:  "https://github.com/tailwindlabs/heroicons/archive/refs/tags/v2.2.0.zip",
		StyleDirs: []StyleDir{
			{Subpath: "heroicons-2.2.0/optimized/24/outline", Style: "outline"},
			{Subpath: "heroicons-2.2.0/optimized/24/solid", Style: "solid"},
			{Subpath: "heroicons-2.2.0/optimized/20/solid", Style: "mini"},
		},
		Normalize:   NormalizeStyleSuffix,
		CDNTemplate: "https://cdn.jsdelivr.net/gh/tailwindlabs/heroicons@2.2.0/optimized/24/outline/{name}.svg",
	},
	{
		ID:          "material",
		Namespace:   "material",
		DisplayName: "Material Symbols",
		Description: "Google's Material Design icon set in the outlined style.",
		Version:     "latest",
		ArchiveURL:  "https://github.com/AviDuda/google-material-icons/archive/refs/heads/main.zip",
		StyleDirs: []StyleDir{
			{Subpath: "google-material-icons-main/icons/svg/outlined"},
		},
		Normalize:   NormalizeUnderscore,
		CDNTemplate: "https://cdn.jsdelivr.net/gh/AviDuda/google-material-icons@main/icons/svg/outlined/{name}.svg",
	},
	{
		ID:          "tabler",
		Namespace:   "tabler",
		DisplayName: "Tabler Icons",
		Description: "Free SVG icons drawn on a 24x24 grid, in outline and filled styles.",
		Version:     "3.28.1",
		ArchiveURL:  "https://github.com/tabler/tabler-icons/archive/refs/tags/v3.28.1.zip",
		StyleDirs: []StyleDir{
			{Subpath: "tabler-icons-3.28.1/icons/outline", Style: "outline"},
			{Subpath: "tabler-icons-3.28.1/icons/filled", Style: "filled"},
		},
		Normalize:   NormalizeStyleSuffix,
		CDNTemplate: "https://cdn.jsdelivr.net/gh/tabler/tabler-icons@v3.28.1/icons/outline/{name}.svg",
	},
	{
		ID:          "lucide",
		Namespace:   "lucide",
		DisplayName: "Lucide Icons",
		Description: "Community continuation of Feather with a consistent stroke-based look.",
		Version:     "0.469.0",
		ArchiveURL:  "https://github.com/lucide-icons/lucide/archive/refs/tags/0.469.0.zip",
		StyleDirs: []StyleDir{
			{Subpath: "lucide-0.469.0/icons"},
		},
		Normalize:   NormalizeVerbatim,
		CDNTemplate: "https://cdn.jsdelivr.net/gh/lucide-icons/lucide@0.469.0/icons/{name}.svg",
	},
	{
		ID:          "fontawesome",
		Namespace:   "fa",
		DisplayName: "Font Awesome Free",
		Description: "The free subset of Font Awesome, covering solid, regular, and brands styles.",
		Version:     "6.7.2",
		ArchiveURL:  "https://github.com/FortAwesome/Font-Awesome/archive/refs/tags/6.7.2.zip",
		StyleDirs: []StyleDir{
			{Subpath: "Font-Awesome-6.7.2/svgs/solid", Style: "solid"},
			{Subpath: "Font-Awesome-6.7.2/svgs/regular", Style: "regular"},
			{Subpath: "Font-Awesome-6.7.2/svgs/brands", Style: "brands"},
		},
		Normalize:   NormalizeDefaultStyle("solid"),
		CDNTemplate: "https://cdn.jsdelivr.net/gh/FortAwesome/Font-Awesome@6.7.2/svgs/solid/{name}.svg",
	},
}

// All returns every supported pack in display order.
func All() []Pack {
	out := make([]Pack, len(catalog))
	copy(out, catalog)
	return out
}

// ByID returns the pack with the given identifier.
func ByID(id string) (Pack, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Pack{}, false
}

// ByNamespace returns the pack bound to the given namespace.
func ByNamespace(namespace string) (Pack, bool) {
	for _, p := range catalog {
		if p.Namespace == namespace {
			return p, true
		}
	}
	return Pack{}, false
}

// IDs returns every pack identifier in display order.
func IDs() []string {
	ids := make([]string, len(catalog))
	for i, p := range catalog {
		ids[i] = p.ID
	}
	return ids
}

// CDNTemplates returns the namespace to URL-template table for every pack
// that declares a CDN.
func CDNTemplates() map[string]string {
	templates := make(map[string]string, len(catalog))
	for _, p := range catalog {
		if p.CDNTemplate != "" {
			templates[p.Namespace] = p.CDNTemplate
		}
	}
	return templates
}

// IconsDir returns the directory the pack's SVG files install into.
func (p Pack) IconsDir(packsDir string) string {
	return filepath.Join(packsDir, p.ID, "icons")
}

// Installed reports whether the pack's icons directory exists.
func (p Pack) Installed(packsDir string) bool {
	info, err := os.Stat(p.IconsDir(packsDir))
	return err == nil && info.IsDir()
}

// InstalledCount counts the SVG files in the pack's icons directory. A
// missing directory counts as zero.
func (p Pack) InstalledCount(packsDir string) int {
	entries, err := os.ReadDir(p.IconsDir(packsDir))
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".svg") {
			count++
		}
	}
	return count
}

// Validate checks the descriptor is complete enough to install.
func (p Pack) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pack id is required")
	}
	if p.Namespace == "" {
		return fmt.Errorf("pack %s: namespace is required", p.ID)
	}
	if p.ArchiveURL == "" {
		return fmt.Errorf("pack %s: archive url is required", p.ID)
	}
	if len(p.StyleDirs) == 0 {
		return fmt.Errorf("pack %s: at least one style dir is required", p.ID)
	}
	if p.Normalize == nil {
		return fmt.Errorf("pack %s: normalizer is required", p.ID)
	}
	if valid, errs := p.Description.IsValid(); !valid {
		return fmt.Errorf("pack %s: %w", p.ID, errs[0])
	}
	return nil
}
