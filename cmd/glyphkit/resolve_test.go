// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glyphkit/pkg/icons"
)

// writeIconDir creates a directory with one SVG file per name and
// returns its path.
func writeIconDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		path := filepath.Join(dir, name+".svg")
		if err := os.WriteFile(path, []byte("<svg>"+name+"</svg>"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	return dir
}

func TestRunResolvePrintsMarkup(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.DefaultNamespace = "tp"
	cfg.IconDirs = map[string]string{"tp": writeIconDir(t, "home")}
	app, stdout, _ := newTestApp(cfg)

	if err := runResolve(t.Context(), app, []string{"tp:home", "home"}, false, false); err != nil {
		t.Fatalf("runResolve: %v", err)
	}
	want := "<svg>home</svg>\n<svg>home</svg>\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
}

func TestRunResolveSilentMissing(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.IconDirs = map[string]string{"tp": writeIconDir(t, "home")}
	app, stdout, _ := newTestApp(cfg)

	if err := runResolve(t.Context(), app, []string{"tp:ghost"}, false, false); err != nil {
		t.Fatalf("runResolve: %v", err)
	}
	if stdout.String() != "\n" {
		t.Errorf("stdout = %q, want a single empty line", stdout.String())
	}
}

func TestRunResolveStrictMissing(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.IconDirs = map[string]string{"tp": writeIconDir(t, "home")}
	app, _, stderr := newTestApp(cfg)

	err := runResolve(t.Context(), app, []string{"tp:ghost"}, false, true)
	if err == nil {
		t.Fatal("runResolve returned nil for a strict miss")
	}
	exitErr, ok := errors.AsType[*ExitError](err)
	if !ok {
		t.Fatalf("error %T is not an ExitError", err)
	}
	if int(exitErr.Code) != 1 {
		t.Errorf("Code = %d, want 1", exitErr.Code)
	}
	if !errors.Is(err, icons.ErrNotFound) {
		t.Error("error chain does not reach icons.ErrNotFound")
	}
	if stderr.Len() == 0 {
		t.Error("expected the icon-not-found issue card on stderr")
	}
}

func TestRunResolveCheckReportsStatus(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.IconDirs = map[string]string{"tp": writeIconDir(t, "home")}
	app, stdout, _ := newTestApp(cfg)

	if err := runResolve(t.Context(), app, []string{"tp:home", "tp:ghost"}, true, false); err != nil {
		t.Fatalf("runResolve --check: %v", err)
	}
	out := stdout.String()
	if !strings.Contains(out, "tp:home") || !strings.Contains(out, "tp:ghost") {
		t.Errorf("status report missing references:\n%s", out)
	}
	if !strings.Contains(out, "1 of 2 references did not resolve") {
		t.Errorf("status report missing summary:\n%s", out)
	}
}

func TestRunResolveCheckStrictFailsOnMiss(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.IconDirs = map[string]string{"tp": writeIconDir(t, "home")}
	app, stdout, _ := newTestApp(cfg)

	err := runResolve(t.Context(), app, []string{"tp:ghost"}, true, true)
	exitErr, ok := errors.AsType[*ExitError](err)
	if !ok {
		t.Fatalf("error %T is not an ExitError", err)
	}
	if int(exitErr.Code) != 1 {
		t.Errorf("Code = %d, want 1", exitErr.Code)
	}
	// The per-reference report still prints before the failure.
	if !strings.Contains(stdout.String(), "tp:ghost") {
		t.Errorf("status report missing reference:\n%s", stdout.String())
	}
}

func TestRunResolveConfigError(t *testing.T) {
	t.Parallel()

	app, _, stderr := newTestApp(nil)
	app.Config = &staticProvider{err: errors.New("malformed cue")}

	err := runResolve(t.Context(), app, []string{"tp:home"}, false, false)
	if _, ok := errors.AsType[*ExitError](err); !ok {
		t.Fatalf("error %T is not an ExitError", err)
	}
	if !strings.Contains(stderr.String(), "malformed cue") {
		t.Errorf("stderr missing cause:\n%s", stderr.String())
	}
}

func TestRunResolveAliases(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.DefaultNamespace = "tp"
	cfg.IconDirs = map[string]string{"tp": writeIconDir(t, "magnifying-glass")}
	cfg.Aliases = map[string]string{"search": "tp:magnifying-glass"}
	app, stdout, _ := newTestApp(cfg)

	if err := runResolve(t.Context(), app, []string{"search"}, false, false); err != nil {
		t.Fatalf("runResolve: %v", err)
	}
	if !strings.Contains(stdout.String(), "<svg>magnifying-glass</svg>") {
		t.Errorf("alias did not resolve to target markup: %q", stdout.String())
	}
}
