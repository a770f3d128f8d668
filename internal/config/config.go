// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/appgrep/appgrep/internal/catalog"
	"github.com/appgrep/appgrep/internal/cueutil"
	"github.com/appgrep/appgrep/internal/issue"
)

const (
	// AppName is the application name.
	AppName = "appgrep"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. APPGREP_DISCOVERY_TIMEOUT.
	EnvPrefix = "APPGREP"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the appgrep configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
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

// FilePath returns the config file opts point at. The file may not exist.
func FilePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		return opts.ConfigFilePath, nil
	}
	dir, err := configDirWithOverride(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions performs option-driven config loading. It returns the
// path of the file that was read, or "" when defaults were used.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := FilePath(opts)
	if err != nil {
		return nil, "", err
	}

	resolvedPath := ""
	switch {
	case fileExists(path):
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'appgrep config dump' to see a valid configuration").
				Wrap(err).
				BuildError()
		}
		resolvedPath = path
	case opts.ConfigFilePath != "":
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(opts.ConfigFilePath).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Run 'appgrep config init' to create the default file").
			Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", issue.WrapWithOperation(err, "decode configuration")
	}
	normalizeSources(cfg.Discovery.Disabled)

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Search weights must be positive and strictly decreasing from exact to subsequence").
			WithSuggestion("Check APPGREP_* environment variables for stray values").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("discovery.timeout", d.Discovery.Timeout)
	v.SetDefault("discovery.max_parallel", d.Discovery.MaxParallel)
	v.SetDefault("discovery.disabled", d.Discovery.Disabled)
	v.SetDefault("discovery.standalone_dirs", d.Discovery.StandaloneDirs)
	v.SetDefault("search.weights.exact", d.Search.Weights.Exact)
	v.SetDefault("search.weights.prefix", d.Search.Weights.Prefix)
	v.SetDefault("search.weights.substring", d.Search.Weights.Substring)
	v.SetDefault("search.weights.subsequence", d.Search.Weights.Subsequence)
	v.SetDefault("ui.format", d.UI.Format)
	v.SetDefault("ui.color_scheme", d.UI.ColorScheme)
	v.SetDefault("ui.no_color", d.UI.NoColor)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("doctor.sample_size", d.Doctor.SampleSize)
}

// normalizeSources lower-cases recognizable source names in place so
// environment overrides such as APPGREP_DISCOVERY_DISABLED=Snap work.
func normalizeSources(sources []catalog.Source) {
	for i, s := range sources {
		if parsed, err := catalog.ParseSource(string(s)); err == nil {
			sources[i] = parsed
		}
	}
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges its
// contents into Viper. The document decodes to a map so Viper keeps
// defaults and env overrides for fields the file omits.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	unified, err := cueutil.Unify(configSchema, "#Config", data, path)
	if err != nil {
		return err
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
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

// CreateDefaultConfig writes the default configuration to the file opts
// point at unless it already exists. It reports the path and whether the
// file was created.
func CreateDefaultConfig(opts LoadOptions) (string, bool, error) {
	path, err := FilePath(opts)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return path, true, nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// appgrep configuration file\n\n")

	sb.WriteString("discovery: {\n")
	fmt.Fprintf(&sb, "\ttimeout:      %q\n", cfg.Discovery.Timeout.String())
	fmt.Fprintf(&sb, "\tmax_parallel: %d\n", cfg.Discovery.MaxParallel)
	sb.WriteString("\tdisabled: [")
	for i, s := range cfg.Discovery.Disabled {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", string(s))
	}
	sb.WriteString("]\n")
	sb.WriteString("\tstandalone_dirs: [")
	for i, d := range cfg.Discovery.StandaloneDirs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", d)
	}
	sb.WriteString("]\n")
	sb.WriteString("}\n")

	w := cfg.Search.Weights
	sb.WriteString("\nsearch: weights: {\n")
	fmt.Fprintf(&sb, "\texact:       %d\n", w.Exact)
	fmt.Fprintf(&sb, "\tprefix:      %d\n", w.Prefix)
	fmt.Fprintf(&sb, "\tsubstring:   %d\n", w.Substring)
	fmt.Fprintf(&sb, "\tsubsequence: %d\n", w.Subsequence)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tformat:       %q\n", string(cfg.UI.Format))
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", string(cfg.UI.ColorScheme))
	fmt.Fprintf(&sb, "\tno_color:     %v\n", cfg.UI.NoColor)
	fmt.Fprintf(&sb, "\tverbose:      %v\n", cfg.UI.Verbose)
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\ndoctor: sample_size: %d\n", cfg.Doctor.SampleSize)

	return sb.String()
}
