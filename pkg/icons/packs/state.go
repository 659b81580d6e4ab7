// SPDX-License-Identifier: MPL-2.0

package packs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// stateFileName is the install record kept at the packs dir root.
const stateFileName = "packs.toml"

type (
	// PackRecord is one installed pack's entry in the state file.
	PackRecord struct {
		Version     string    `toml:"version"`
		Icons       int       `toml:"icons"`
		InstalledAt time.Time `toml:"installed_at"`
	}

	// State is the full installed-pack record, keyed by pack ID.
	State struct {
		Packs map[string]PackRecord `toml:"packs"`
	}
)

// StatePath returns the state file location for a packs dir.
func StatePath(packsDir string) string {
	return filepath.Join(packsDir, stateFileName)
}

// ReadState loads the state file. A missing file yields an empty state;
// an unreadable or malformed file is an error the caller may choose to
// ignore, since the icons on disk remain the source of truth.
func ReadState(packsDir string) (*State, error) {
	data, err := os.ReadFile(StatePath(packsDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &State{Packs: map[string]PackRecord{}}, nil
		}
		return nil, fmt.Errorf("read pack state: %w", err)
	}

	var state State
	if err := toml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse pack state: %w", err)
	}
	if state.Packs == nil {
		state.Packs = map[string]PackRecord{}
	}
	return &state, nil
}

// Record notes a completed install of p with the given icon count.
func (s *State) Record(p Pack, count int) {
	if s.Packs == nil {
		s.Packs = map[string]PackRecord{}
	}
	s.Packs[p.ID] = PackRecord{
		Version:     p.Version,
		Icons:       count,
		InstalledAt: time.Now().UTC(),
	}
}

// WriteState persists the state file under packsDir.
func WriteState(packsDir string, s *State) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode pack state: %w", err)
	}
	if err := os.MkdirAll(packsDir, 0o755); err != nil {
		return fmt.Errorf("create packs dir: %w", err)
	}
	if err := os.WriteFile(StatePath(packsDir), data, 0o644); err != nil {
		return fmt.Errorf("write pack state: %w", err)
	}
	return nil
}
