// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appgrep/appgrep/internal/catalog"
	"github.com/appgrep/appgrep/internal/config"
	"github.com/appgrep/appgrep/internal/issue"
)

// newConfigCommand creates the `appgrep config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage appgrep configuration",
		Long: `Manage appgrep configuration.

Configuration is stored in:
  - Linux: $XDG_CONFIG_HOME/appgrep/config.cue (~/.config/appgrep/config.cue)
  - macOS: ~/Library/Application Support/appgrep/config.cue
  - Windows: %APPDATA%\appgrep\config.cue

Every key can be overridden with an APPGREP_* environment variable,
for example APPGREP_DISCOVERY_TIMEOUT=2s.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sessionFromContext(cmd.Context())
			path, err := config.FilePath(config.LoadOptions{ConfigFilePath: s.configPath})
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := sessionFromContext(cmd.Context())
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: s.configPath})
			if err != nil {
				return configLoadError(err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

// configLoadError pairs a configuration error with its issue help.
func configLoadError(err error) error {
	return newServiceError(err, issue.ConfigLoadFailedId, "")
}

func showConfig(ctx context.Context, app *App) error {
	s := sessionFromContext(ctx)
	opts := config.LoadOptions{ConfigFilePath: s.configPath}
	cfg, err := app.Config.Load(ctx, opts)
	if err != nil {
		return configLoadError(err)
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path, pathErr := config.FilePath(opts); pathErr == nil && fileExistsCheck(path) {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}

	section := func(name string) {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", keyStyle.Render(name))
	}
	value := func(key string, v any) {
		fmt.Fprintf(w, "  %s: %s\n", key, valueStyle.Render(fmt.Sprint(v)))
	}

	section("discovery")
	value("timeout", cfg.Discovery.Timeout)
	value("max_parallel", cfg.Discovery.MaxParallel)
	value("disabled", joinOrNone(sourceNames(cfg.Discovery.Disabled)))
	value("standalone_dirs", joinOrNone(cfg.Discovery.StandaloneDirs))

	section("search.weights")
	value("exact", cfg.Search.Weights.Exact)
	value("prefix", cfg.Search.Weights.Prefix)
	value("substring", cfg.Search.Weights.Substring)
	value("subsequence", cfg.Search.Weights.Subsequence)

	section("ui")
	value("format", cfg.UI.Format)
	value("color_scheme", cfg.UI.ColorScheme)
	value("no_color", cfg.UI.NoColor)
	value("verbose", cfg.UI.Verbose)

	section("doctor")
	value("sample_size", cfg.Doctor.SampleSize)

	return nil
}

func initConfig(ctx context.Context, app *App) error {
	s := sessionFromContext(ctx)
	path, created, err := config.CreateDefaultConfig(config.LoadOptions{ConfigFilePath: s.configPath})
	if err != nil {
		return issue.WrapWithOperation(err, "create default configuration")
	}

	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("•"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func sourceNames(sources []catalog.Source) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.String()
	}
	return names
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
