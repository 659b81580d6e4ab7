// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"glyphkit/internal/issue"
	"glyphkit/pkg/cueutil"
	"glyphkit/pkg/platform"
	"glyphkit/pkg/types"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "glyphkit"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "glyphkit"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the glyphkit configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// DataDir returns the glyphkit data directory holding installed packs and the
// persistent cache: %LOCALAPPDATA% on Windows, ~/Library/Application Support
// on macOS, and $XDG_DATA_HOME (defaulting to ~/.local/share) elsewhere.
func DataDir() (string, error) {
	// Allow tests to override the data directory
	if dataDirOverride != "" {
		return dataDirOverride, nil
	}

	var dataDir string

	switch runtime.GOOS {
	case platform.Windows:
		dataDir = os.Getenv("LOCALAPPDATA")
		if dataDir == "" {
			dataDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		dataDir = os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
	}

	return filepath.Join(dataDir, AppName), nil
}

// Load loads configuration from the platform default locations.
func Load(ctx context.Context) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, LoadOptions{})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithOptions loads configuration from explicit options and reports the
// config file path that supplied user values ("" when running on defaults).
func LoadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return loadWithOptions(ctx, opts)
}

// loadWithOptions performs option-driven config loading without mutating
// package-level cache state. Callers that want caching can wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("default_namespace", defaults.DefaultNamespace)
	v.SetDefault("silent_missing", defaults.SilentMissing)
	v.SetDefault("auto_discover", defaults.AutoDiscover)
	v.SetDefault("packs", defaults.Packs)
	v.SetDefault("packs_dir", defaults.PacksDir)
	v.SetDefault("icon_dirs", defaults.IconDirs)
	v.SetDefault("aliases", defaults.Aliases)
	v.SetDefault("cache.capacity", defaults.Cache.Capacity)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("cache.store", defaults.Cache.Store)
	v.SetDefault("cache.path", defaults.Cache.Path)
	v.SetDefault("render.default_size", defaults.Render.DefaultSize)
	v.SetDefault("render.default_class", defaults.Render.DefaultClass)
	v.SetDefault("render.aria_hidden", defaults.Render.AriaHidden)
	v.SetDefault("fetch.timeout", defaults.Fetch.Timeout)
	v.SetDefault("fetch.concurrency", defaults.Fetch.Concurrency)
	v.SetDefault("fetch.url_templates", defaults.Fetch.URLTemplates)
	v.SetDefault("collect.output", defaults.Collect.Output)
	v.SetDefault("collect.extensions", defaults.Collect.Extensions)
	v.SetDefault("collect.roots", defaults.Collect.Roots)

	resolvedPath := ""

	// If a custom config file path is set via --config flag, use it exclusively.
	if opts.ConfigFilePath != "" {
		cfgFilePath := opts.ConfigFilePath.String()
		if !fileExists(cfgFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'glyphkit config show' to see default configuration").
				Wrap(fmt.Errorf("config file not found: %s", cfgFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, cfgFilePath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgFilePath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'glyphkit config --help' for configuration options").
				Wrap(err).
				BuildError()
		}
		resolvedPath = cfgFilePath
	} else {
		// Get config directory
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, "", err
		}

		// Try to load CUE config file
		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(cuePath).
					WithSuggestion("Check that the file contains valid CUE syntax").
					WithSuggestion("Verify the configuration values match the expected schema").
					WithSuggestion("See 'glyphkit config --help' for configuration options").
					Wrap(err).
					BuildError()
			}
			resolvedPath = cuePath
		} else {
			// Also check current directory
			localCuePath := ConfigFileName + "." + ConfigFileExt
			if fileExists(localCuePath) {
				if err := loadCUEIntoViper(v, localCuePath); err != nil {
					return nil, "", issue.NewErrorContext().
						WithOperation("load configuration").
						WithResource(localCuePath).
						WithSuggestion("Check that the file contains valid CUE syntax").
						WithSuggestion("Verify the configuration values match the expected schema").
						WithSuggestion("See 'glyphkit config --help' for configuration options").
						Wrap(err).
						BuildError()
				}
				resolvedPath = localCuePath
			}
			// If no config file found, use defaults (no error)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Fill platform-derived paths that defaults leave empty.
	if cfg.PacksDir == "" || cfg.Cache.Path == "" {
		dataDir, err := DataDir()
		if err != nil {
			return nil, "", err
		}
		if cfg.PacksDir == "" {
			cfg.PacksDir = filepath.Join(dataDir, "packs")
		}
		if cfg.Cache.Path == "" {
			cfg.Cache.Path = filepath.Join(dataDir, "cache")
		}
	}

	// Validate constraints the CUE schema cannot express: duration grammar,
	// alias target form, and pack ids against the built-in catalog.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Durations use Go syntax like \"24h\" or \"10s\"").
			WithSuggestion("Alias targets must reference an icon as \"namespace:name\"").
			WithSuggestion("Run 'glyphkit packs' to list valid pack ids").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath types.FilesystemPath) (string, error) {
	if configDirPath != "" {
		return configDirPath.String(), nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper. The decode target is a map
// rather than the Config struct so Viper keeps its defaults for every
// field the file leaves out.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecodeString[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// EnsureDataDir creates the data directory if it doesn't exist
func EnsureDataDir() error {
	dataDir, err := DataDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dataDir, 0o755)
}

// CreateDefaultConfig creates a default config file if it doesn't exist
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		return nil // File exists
	}

	defaults := DefaultConfig()
	cueContent := GenerateCUE(defaults)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	cueContent := GenerateCUE(cfg)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// GlyphKit Configuration File\n")
	sb.WriteString("// See https://github.com/glyphkit/glyphkit for documentation.\n\n")

	// Resolution settings
	sb.WriteString(fmt.Sprintf("default_namespace: %q\n", cfg.DefaultNamespace))
	sb.WriteString(fmt.Sprintf("silent_missing: %v\n", cfg.SilentMissing))
	sb.WriteString(fmt.Sprintf("auto_discover: %v\n", cfg.AutoDiscover))

	// Pack allow-list
	if len(cfg.Packs) > 0 {
		sb.WriteString("\npacks: [\n")
		for _, id := range cfg.Packs {
			sb.WriteString(fmt.Sprintf("\t%q,\n", id))
		}
		sb.WriteString("]\n")
	}
	if cfg.PacksDir != "" {
		sb.WriteString(fmt.Sprintf("packs_dir: %q\n", cfg.PacksDir))
	}

	// Custom namespace bindings
	if len(cfg.IconDirs) > 0 {
		sb.WriteString("\nicon_dirs: {\n")
		for _, namespace := range sortedKeys(cfg.IconDirs) {
			sb.WriteString(fmt.Sprintf("\t%q: %q\n", namespace, cfg.IconDirs[namespace]))
		}
		sb.WriteString("}\n")
	}

	// Alias table
	if len(cfg.Aliases) > 0 {
		sb.WriteString("\naliases: {\n")
		for _, alias := range sortedKeys(cfg.Aliases) {
			sb.WriteString(fmt.Sprintf("\t%q: %q\n", alias, cfg.Aliases[alias]))
		}
		sb.WriteString("}\n")
	}

	// Cache config
	sb.WriteString("\ncache: {\n")
	sb.WriteString(fmt.Sprintf("\tcapacity: %d\n", cfg.Cache.Capacity))
	sb.WriteString(fmt.Sprintf("\tttl: %q\n", cfg.Cache.TTL))
	sb.WriteString(fmt.Sprintf("\tstore: %q\n", cfg.Cache.Store))
	if cfg.Cache.Path != "" {
		sb.WriteString(fmt.Sprintf("\tpath: %q\n", cfg.Cache.Path))
	}
	sb.WriteString("}\n")

	// Render hints
	sb.WriteString("\nrender: {\n")
	sb.WriteString(fmt.Sprintf("\tdefault_size: %d\n", cfg.Render.DefaultSize))
	if cfg.Render.DefaultClass != "" {
		sb.WriteString(fmt.Sprintf("\tdefault_class: %q\n", cfg.Render.DefaultClass))
	}
	sb.WriteString(fmt.Sprintf("\taria_hidden: %v\n", cfg.Render.AriaHidden))
	sb.WriteString("}\n")

	// Fetch config. URL template defaults live in the pack catalog and are
	// not materialized here; only user overrides belong in the file.
	sb.WriteString("\nfetch: {\n")
	sb.WriteString(fmt.Sprintf("\ttimeout: %q\n", cfg.Fetch.Timeout))
	sb.WriteString(fmt.Sprintf("\tconcurrency: %d\n", cfg.Fetch.Concurrency))
	sb.WriteString("}\n")

	// Collect config
	sb.WriteString("\ncollect: {\n")
	sb.WriteString(fmt.Sprintf("\toutput: %q\n", cfg.Collect.Output))
	if len(cfg.Collect.Extensions) > 0 {
		sb.WriteString("\textensions: [")
		for i, ext := range cfg.Collect.Extensions {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%q", ext))
		}
		sb.WriteString("]\n")
	}
	if len(cfg.Collect.Roots) > 0 {
		sb.WriteString("\troots: [\n")
		for _, root := range cfg.Collect.Roots {
			sb.WriteString(fmt.Sprintf("\t\t%q,\n", root))
		}
		sb.WriteString("\t]\n")
	}
	sb.WriteString("}\n")

	return sb.String()
}

// sortedKeys returns the keys of m in sorted order for deterministic
// iteration in generated output and validation errors.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
