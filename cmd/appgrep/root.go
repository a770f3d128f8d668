// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/appgrep/appgrep/internal/catalog"
	"github.com/appgrep/appgrep/internal/config"
	"github.com/appgrep/appgrep/internal/issue"
	"github.com/appgrep/appgrep/internal/render"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the global flag values of one command tree.
type rootFlags struct {
	format     string
	sources    []string
	noColor    bool
	stats      bool
	timeout    time.Duration
	verbose    bool
	configPath string
}

// NewRootCommand builds the appgrep command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "appgrep",
		Short: "Find the applications installed on this machine",
		Long: TitleStyle.Render("appgrep") + SubtitleStyle.Render(" - find the applications installed on this machine") + `

appgrep asks every package manager and application directory it knows
about (desktop entries, flatpak, snap, dpkg, rpm, pacman, brew, cargo, npm
and standalone binaries) what is installed, merges the answers into one
catalog and lets you list, search, inspect and launch what it found.

` + SubtitleStyle.Render("Examples:") + `
  appgrep list                     List every application
  appgrep list -s flatpak -f json  Flatpak apps as JSON
  appgrep search fire              Fuzzy search by name
  appgrep has firefox              Exit 0 if installed, 1 otherwise
  appgrep run firefox              Launch an application
  appgrep doctor                   Show what each source found`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.newSession(cmd.Context(), flags, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			cmd.SetContext(contextWithSession(cmd.Context(), s))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.format, "format", "f", "", "output format (table, json, tsv, names, exec)")
	pf.StringSliceVarP(&flags.sources, "source", "s", nil, "only show applications found by these sources (repeatable)")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&flags.stats, "stats", false, "print per-source counts after the results")
	pf.DurationVar(&flags.timeout, "timeout", 0, "per-source discovery timeout (default 5s)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/appgrep/config.cue)")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, f := range render.AllFormats() {
			names = append(names, f.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("source", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		var names []string
		for _, s := range catalog.AllSources() {
			names = append(names, s.String())
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newListCommand(app),
		newSearchCommand(app),
		newInfoCommand(app),
		newHasCommand(app),
		newPathCommand(app),
		newRunCommand(app),
		newDoctorCommand(app),
		newConfigCommand(app),
		newCompletionCommand(),
	)

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
	os.Exit(run(context.Background(), app, os.Args[1:]))
}

// run executes the command tree with args and returns the exit code.
func run(ctx context.Context, app *App, args []string) int {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	)
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// newSession loads configuration, applies flag overrides and installs
// the process logger. A configuration that fails to load is reported and
// replaced by defaults so read-only commands keep working.
func (a *App) newSession(ctx context.Context, f *rootFlags, changed func(string) bool) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: f.configPath})
	if err != nil {
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, f.verbose))
		cfg = config.DefaultConfig()
	}

	if changed("format") {
		format, parseErr := render.ParseFormat(f.format)
		if parseErr != nil {
			return nil, newServiceError(issue.NewErrorContext().
				WithOperation("parse --format").
				WithResource(f.format).
				Wrap(parseErr).
				BuildError(), issue.InvalidFormatId, "")
		}
		cfg.UI.Format = format
	}
	filter, err := catalog.ParseSources(f.sources)
	if err != nil {
		return nil, newServiceError(issue.NewErrorContext().
			WithOperation("parse --source").
			Wrap(err).
			BuildError(), issue.InvalidSourceId, "")
	}
	if changed("timeout") {
		if f.timeout <= 0 {
			return nil, fmt.Errorf("--timeout must be positive, got %s", f.timeout)
		}
		cfg.Discovery.Timeout = f.timeout
	}
	if changed("no-color") {
		cfg.UI.NoColor = f.noColor
	}
	if changed("verbose") {
		cfg.UI.Verbose = f.verbose
	}

	a.verbose = cfg.UI.Verbose
	a.issueStyle = issueStyle(cfg.UI)
	slog.SetDefault(slog.New(newLogger(a.stderr, cfg.UI.Verbose)))

	return &session{cfg: cfg, configPath: f.configPath, filter: filter, stats: f.stats}, nil
}

// newLogger returns the process logger: warnings by default, debug output
// in verbose mode.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "appgrep",
		Level:  level,
	})
}

// issueStyle picks the glamour style for issue help.
func issueStyle(ui config.UIConfig) string {
	if ui.NoColor {
		return "notty"
	}
	switch ui.ColorScheme {
	case config.ColorSchemeDark:
		return "dark"
	case config.ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// handleError is the fang error handler. Silent exit errors print
// nothing; service and actionable errors print their suggestions and
// issue help; everything else uses fang's default rendering.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.silent() {
		return
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		if svcErr.StyledMessage == "" {
			fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatErrorForDisplay(svcErr.Err, a.verbose))
		}
		renderServiceError(w, svcErr, a.issueStyle)
		return
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(w, ErrorStyle.Render("Error: ")+ae.Format(a.verbose))
		if entry := ae.Issue(); entry != nil {
			renderServiceError(w, newServiceError(ae, entry.Id(), ""), a.issueStyle)
		}
		return
	}

	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
