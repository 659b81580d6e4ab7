// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/glyphkit/glyphkit.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/glyphkit/glyphkit.cue on macOS, %APPDATA%\glyphkit\glyphkit.cue
// on Windows), falling back to ./glyphkit.cue in the working directory. The package provides
// type-safe configuration access and covers the default namespace, pack selection, custom
// icon directories, aliases, cache tuning, fetch behavior, and collection roots.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
