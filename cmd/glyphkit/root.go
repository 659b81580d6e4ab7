// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"glyphkit/internal/config"
	"glyphkit/internal/issue"
	"glyphkit/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// App wires CLI services and shared dependencies. All Cobra command
// handlers receive an App reference and load configuration through its
// provider, so tests can substitute a canned config and buffer writers.
type App struct {
	Config config.Provider
	stdout io.Writer
	stderr io.Writer

	// verbose enables verbose output.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string
}

// newApp creates an App with the production dependencies.
func newApp() *App {
	return &App{
		Config: config.NewProvider(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// loadConfig loads the effective configuration, honoring --config.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.cfgFile),
	})
}

// configLoadError renders the config-load issue card and wraps the error
// so the process exits non-zero. Configuration faults are the one class
// of failure that always aborts a command.
func configLoadError(a *App, err error) error {
	rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render("dark")
	if renderErr == nil {
		fmt.Fprint(a.stderr, rendered)
	}
	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))
	return &ExitError{Code: types.ExitFailure, Err: err}
}

// newRootCommand builds the base command with its global flags and the
// full subcommand tree.
func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "glyphkit",
		Short: "Resolve and vendor SVG icons from packs and CDNs",
		Long: TitleStyle.Render("glyphkit") + SubtitleStyle.Render(" - Resolve and vendor SVG icons") + `

glyphkit turns short references like 'ion:home' into inline SVG markup,
looked up across installed icon packs and custom directories with a
two-tier cache in front. A static scanner finds the references your
templates actually use, so the collect pipeline downloads exactly that
set and nothing more.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Install the packs you use: glyphkit packs install ionicons
  2. Check a reference resolves: glyphkit resolve ion:home
  3. Vendor your corpus's icons: glyphkit collect --root ./web

` + SubtitleStyle.Render("Examples:") + `
  glyphkit resolve ion:home      Print the markup for one icon
  glyphkit list ion              List resolvable names in a namespace
  glyphkit collect --dry-run     Show what a collect run would fetch
  glyphkit packs list            Show the pack catalog and install state
  glyphkit config show           Show the effective configuration`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(app.verbose)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default is $HOME/.config/glyphkit/glyphkit.cue)")

	// Add subcommands
	rootCmd.AddCommand(newResolveCommand(app))
	rootCmd.AddCommand(newListCommand(app))
	rootCmd.AddCommand(newCollectCommand(app))
	rootCmd.AddCommand(newPacksCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

// setupLogging installs a charmbracelet/log handler as the slog default
// so library-level warnings share the CLI styling. Verbose mode lowers
// the threshold to debug.
func setupLogging(verbose bool) {
	opts := log.Options{ReportTimestamp: false}
	if verbose {
		opts.Level = log.DebugLevel
	}
	slog.SetDefault(slog.New(log.NewWithOptions(os.Stderr, opts)))
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command and maps ExitError codes onto the
// process exit status. This is called by main.main().
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		newRootCommand(newApp()),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		if exitErr, ok := errors.AsType[*ExitError](err); ok {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	if ae, ok := errors.AsType[*issue.ActionableError](err); ok {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
