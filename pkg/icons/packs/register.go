// SPDX-License-Identifier: MPL-2.0

package packs

import (
	"log/slog"

	"glyphkit/pkg/icons"
)

// RegisterIfPresent binds a directory source for each allowed pack whose
// icons directory exists, under the pack's namespace at pack priority.
// Packs that are not installed are a silent no-op; identifiers that name
// no known pack are logged and skipped.
func RegisterIfPresent(reg *icons.Registry, packsDir string, allow []string) {
	for _, id := range allow {
		p, ok := ByID(id)
		if !ok {
			slog.Warn("unknown icon pack in configuration, skipping", "pack", id)
			continue
		}
		if !p.Installed(packsDir) {
			continue
		}
		reg.RegisterSource(p.Namespace, icons.NewDirSource(p.IconsDir(packsDir)), icons.PriorityPack)
	}
}

// Discoverer adapts RegisterIfPresent to the bootstrap discovery hook.
func Discoverer(packsDir string, allow []string) icons.DiscoverFunc {
	return func(reg *icons.Registry) error {
		RegisterIfPresent(reg, packsDir, allow)
		return nil
	}
}
