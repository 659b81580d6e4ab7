// SPDX-License-Identifier: MPL-2.0

package icons

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type (
	// Source resolves icon names within one namespace binding. Implementations
	// report "not found" through the found flag, never through the error: a
	// non-nil error means an unrecoverable I/O fault (permission, corruption),
	// which the registry logs and treats as absent.
	Source interface {
		Resolve(name string) (markup string, found bool, err error)
	}

	// Lister is implemented by sources that can enumerate their icon names.
	// The registry uses it for listing; resolution never does.
	Lister interface {
		Names() ([]string, error)
	}

	// DirSource serves icons from a flat directory of <name>.svg files.
	// Lookups are case-sensitive exact matches. Names containing path
	// separators or ".." segments resolve to absent, so a reference can
	// never escape the root.
	//
	// Installed packs are served by a DirSource rooted at the pack's icons
	// directory; pack filenames were normalized at install time, so no
	// transform is applied here.
	DirSource struct {
		root string
	}
)

// NewDirSource returns a DirSource rooted at root. The directory is not
// required to exist yet; a missing root resolves every name to absent.
func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

// Root returns the directory the source reads from.
func (s *DirSource) Root() string { return s.root }

// Resolve reads <root>/<name>.svg and returns its contents.
func (s *DirSource) Resolve(name string) (string, bool, error) {
	if !safeName(name) {
		return "", false, nil
	}
	data, err := os.ReadFile(filepath.Join(s.root, name+".svg"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read icon file: %w", err)
	}
	return string(data), true, nil
}

// Names returns the sorted icon names available in the source directory.
// A missing root yields an empty list, not an error.
func (s *DirSource) Names() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list icon directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base := entry.Name()
		if stem, ok := strings.CutSuffix(base, ".svg"); ok && stem != "" {
			names = append(names, stem)
		}
	}
	return names, nil
}

// safeName rejects names that could traverse outside the source root.
func safeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return !strings.Contains(name, "..")
}
