// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"

	"glyphkit/internal/config"
	"glyphkit/internal/issue"
	"glyphkit/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `glyphkit config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage glyphkit configuration",
		Long: `Manage glyphkit configuration.

Configuration is stored in:
  - Linux: ~/.config/glyphkit/glyphkit.cue
  - macOS: ~/Library/Application Support/glyphkit/glyphkit.cue
  - Windows: %APPDATA%\glyphkit\glyphkit.cue

A glyphkit.cue in the current directory is picked up when the platform
location has none.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration and data locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "validate [file]",
		Short: "Check a configuration file against the schema",
		Long: `Check a configuration file against the schema.

Validates the given file, or the one the resolution order would load when
no file is named. Schema violations are reported with file positions, and
the semantic checks that run at load time (duration grammar, alias
targets, pack ids) are applied on top.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.cfgFile
			if len(args) == 1 {
				path = args[0]
			}
			return validateConfig(cmd.Context(), app, path)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context())
			if err != nil {
				return configLoadError(app, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, resolvedPath, err := config.LoadWithOptions(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(app.cfgFile),
	})
	if err != nil {
		rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		if renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	if resolvedPath != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), resolvedPath)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("default_namespace"), valueStyle.Render(cfg.DefaultNamespace))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("silent_missing"), valueStyle.Render(fmt.Sprintf("%v", cfg.SilentMissing)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("auto_discover"), valueStyle.Render(fmt.Sprintf("%v", cfg.AutoDiscover)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("packs_dir"), valueStyle.Render(cfg.PacksDir))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("packs"))
	if len(cfg.Packs) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(none allowed)"))
	} else {
		for _, id := range cfg.Packs {
			fmt.Fprintf(app.stdout, "  - %s\n", valueStyle.Render(id))
		}
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("icon_dirs"))
	printStringMap(app, cfg.IconDirs)

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("aliases"))
	printStringMap(app, cfg.Aliases)

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("cache"))
	fmt.Fprintf(app.stdout, "  capacity: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Cache.Capacity)))
	fmt.Fprintf(app.stdout, "  ttl: %s\n", valueStyle.Render(cfg.Cache.TTL))
	fmt.Fprintf(app.stdout, "  store: %s\n", valueStyle.Render(cfg.Cache.Store.String()))
	fmt.Fprintf(app.stdout, "  path: %s\n", valueStyle.Render(cfg.Cache.Path))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("fetch"))
	fmt.Fprintf(app.stdout, "  timeout: %s\n", valueStyle.Render(cfg.Fetch.Timeout))
	fmt.Fprintf(app.stdout, "  concurrency: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Fetch.Concurrency)))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("collect"))
	fmt.Fprintf(app.stdout, "  output: %s\n", valueStyle.Render(cfg.Collect.Output))
	fmt.Fprintf(app.stdout, "  extensions: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Collect.Extensions)))
	fmt.Fprintf(app.stdout, "  roots: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Collect.Roots)))

	return nil
}

// printStringMap prints a sorted key/value block, or a muted placeholder
// when the map is empty.
func printStringMap(app *App, m map[string]string) {
	if len(m) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(none configured)"))
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(app.stdout, "  %s: %s\n", k, SuccessStyle.Render(m[k]))
	}
}

func validateConfig(ctx context.Context, app *App, path string) error {
	_, resolvedPath, err := config.LoadWithOptions(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(path),
	})
	if err != nil {
		rendered, renderErr := issue.Get(issue.ConfigParseErrorId).Render("dark")
		if renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
		fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, app.verbose))
		return &ExitError{Code: types.ExitFailure, Err: err}
	}

	if resolvedPath == "" {
		fmt.Fprintf(app.stdout, "%s No configuration file found; built-in defaults apply\n", SuccessStyle.Render("✓"))
		return nil
	}

	fmt.Fprintf(app.stdout, "%s %s is valid\n", SuccessStyle.Render("✓"), resolvedPath)
	return nil
}

func initConfig(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Default configuration at %s\n",
		SuccessStyle.Render("✓"), filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	// Also create the data directory so the first pack install or cache
	// write does not have to.
	if err := config.EnsureDataDir(); err != nil {
		slog.Warn("failed to create data directory", "error", err)
	} else if dataDir, dirErr := config.DataDir(); dirErr == nil {
		fmt.Fprintf(app.stdout, "%s Data directory at %s\n", SuccessStyle.Render("✓"), dataDir)
	}

	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	if dataDir, err := config.DataDir(); err == nil {
		fmt.Fprintf(app.stdout, "Data directory: %s\n", dataDir)
		fmt.Fprintf(app.stdout, "Packs directory: %s\n", filepath.Join(dataDir, "packs"))
		fmt.Fprintf(app.stdout, "Cache directory: %s\n", filepath.Join(dataDir, "cache"))
	}

	return nil
}
