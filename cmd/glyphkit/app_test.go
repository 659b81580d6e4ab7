// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bytes"
	"context"
	"testing"

	"glyphkit/internal/config"
)

// staticProvider serves a canned configuration, returning a fresh copy
// per Load so handlers can adjust policy fields without cross-test
// interference.
type staticProvider struct {
	cfg *config.Config
	err error
}

func (p *staticProvider) Load(_ context.Context, _ config.LoadOptions) (*config.Config, error) {
	if p.err != nil {
		return nil, p.err
	}
	cfg := *p.cfg
	return &cfg, nil
}

// newTestApp builds an App around a canned config with buffered output.
func newTestApp(cfg *config.Config) (*App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	app := &App{
		Config: &staticProvider{cfg: cfg},
		stdout: &stdout,
		stderr: &stderr,
	}
	return app, &stdout, &stderr
}

// testConfig returns defaults adjusted for hermetic tests: no pack
// discovery, no persistent store, and throwaway directories.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.AutoDiscover = false
	cfg.PacksDir = t.TempDir()
	cfg.Cache.Path = t.TempDir()
	return cfg
}
