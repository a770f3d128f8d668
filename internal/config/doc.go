// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/appgrep/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/appgrep/config.cue on macOS, %APPDATA%\appgrep\config.cue
// on Windows). A missing file means defaults. Every key can be overridden from the
// environment with the APPGREP_ prefix, dots replaced by underscores.
//
// Files are validated against the embedded CUE schema (config_schema.cue) before they
// reach Viper; cross-field rules such as strictly decreasing search weights are checked
// by Config.IsValid after decoding.
package config
