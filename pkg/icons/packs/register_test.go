// SPDX-License-Identifier: MPL-2.0

package packs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"glyphkit/pkg/icons"
)

func installFakePack(t *testing.T, packsDir, id string, files map[string]string) {
	t.Helper()
	p, ok := ByID(id)
	if !ok {
		t.Fatalf("unknown pack %s", id)
	}
	iconsDir := p.IconsDir(packsDir)
	if err := os.MkdirAll(iconsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(iconsDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestRegisterIfPresent(t *testing.T) {
	t.Parallel()

	packsDir := t.TempDir()
	installFakePack(t, packsDir, "ionicons", map[string]string{"home.svg": "<svg>ion home</svg>"})

	reg, err := icons.NewRegistry()
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	// heroicons is not installed and "nope" names no pack; both are skipped.
	RegisterIfPresent(reg, packsDir, []string{"ionicons", "heroicons", "nope"})

	markup, err := reg.Resolve(context.Background(), "ion:home")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if markup != "<svg>ion home</svg>" {
		t.Errorf("got %q, want %q", markup, "<svg>ion home</svg>")
	}

	namespaces := reg.Namespaces()
	if len(namespaces) != 1 || namespaces[0] != "ion" {
		t.Errorf("got namespaces %v, want [ion]", namespaces)
	}
}

func TestDiscovererWiresIntoBootstrap(t *testing.T) {
	t.Parallel()

	packsDir := t.TempDir()
	installFakePack(t, packsDir, "lucide", map[string]string{"zap.svg": "<svg>zap</svg>"})

	reg, err := icons.Bootstrap(icons.BootstrapOptions{
		SilentMissing: true,
		Discover:      []icons.DiscoverFunc{Discoverer(packsDir, IDs())},
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	markup, err := reg.Resolve(context.Background(), "lucide:zap")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if markup != "<svg>zap</svg>" {
		t.Errorf("got %q, want %q", markup, "<svg>zap</svg>")
	}
}

func TestUserDirOutranksPack(t *testing.T) {
	t.Parallel()

	packsDir := t.TempDir()
	installFakePack(t, packsDir, "ionicons", map[string]string{"home.svg": "<svg>pack</svg>"})

	userDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(userDir, "home.svg"), []byte("<svg>user</svg>"), 0o644); err != nil {
		t.Fatalf("write user icon: %v", err)
	}

	reg, err := icons.Bootstrap(icons.BootstrapOptions{
		SilentMissing: true,
		IconDirs:      map[string]string{"ion": userDir},
		Discover:      []icons.DiscoverFunc{Discoverer(packsDir, []string{"ionicons"})},
	})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	markup, err := reg.Resolve(context.Background(), "ion:home")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if markup != "<svg>user</svg>" {
		t.Errorf("got %q, want the user directory to win", markup)
	}
}
