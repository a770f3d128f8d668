// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"mvdan.cc/sh/v3/shell"

	"github.com/appgrep/appgrep/internal/catalog"
	"github.com/appgrep/appgrep/internal/config"
	"github.com/appgrep/appgrep/internal/discovery"
	"github.com/appgrep/appgrep/internal/issue"
	"github.com/appgrep/appgrep/internal/provider"
	"github.com/appgrep/appgrep/internal/query"
	"github.com/appgrep/appgrep/internal/render"
)

var (
	// ErrNoProviders is returned when configuration disables every source.
	ErrNoProviders = errors.New("every application source is disabled")
	// ErrEmptyExec is returned when a launch command has no words.
	ErrEmptyExec = errors.New("empty launch command")
)

type (
	sessionContextKey struct{}

	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: every Cobra handler receives an App and
	// delegates through its service interfaces.
	App struct {
		Config      ConfigProvider
		Discovery   DiscoveryService
		Launcher    Launcher
		Diagnostics DiagnosticRenderer
		stdout      io.Writer
		stderr      io.Writer

		// Set by the root command once flags are resolved; read by the
		// error handler after the command returns.
		verbose    bool
		issueStyle string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		Discovery   DiscoveryService
		Launcher    Launcher
		Diagnostics DiagnosticRenderer
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// DiscoveryService runs one discovery pass under cfg.
	DiscoveryService interface {
		Discover(ctx context.Context, cfg *config.Config) (*discovery.Snapshot, error)
	}

	// Launcher starts an application from its launch command without
	// waiting for it to exit.
	Launcher interface {
		Launch(ctx context.Context, execLine string) error
	}

	// DiagnosticRenderer renders structured diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []discovery.Diagnostic, stderr io.Writer)
	}

	// session is the resolved state of one invocation: configuration with
	// flag overrides applied, plus the flags that only affect output.
	session struct {
		cfg        *config.Config
		configPath string
		filter     []catalog.Source
		stats      bool
	}

	appDiscoveryService struct {
		env provider.Env
	}

	execLauncher struct {
		getenv func(string) string
		start  func(*exec.Cmd) error
	}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Discovery == nil {
		deps.Discovery = &appDiscoveryService{env: provider.HostEnv()}
	}
	if deps.Launcher == nil {
		deps.Launcher = newExecLauncher()
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}

	return &App{
		Config:      deps.Config,
		Discovery:   deps.Discovery,
		Launcher:    deps.Launcher,
		Diagnostics: deps.Diagnostics,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		issueStyle:  "auto",
	}, nil
}

func contextWithSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

// sessionFromContext returns the invocation session, falling back to
// defaults when the root pre-run hook did not run.
func sessionFromContext(ctx context.Context) *session {
	if s, ok := ctx.Value(sessionContextKey{}).(*session); ok {
		return s
	}
	return &session{cfg: config.DefaultConfig()}
}

// snapshot runs discovery. Provider diagnostics are rendered unless quiet.
func (a *App) snapshot(ctx context.Context, s *session, quiet bool) (*discovery.Snapshot, error) {
	snap, err := a.Discovery.Discover(ctx, s.cfg)
	if err != nil {
		return nil, err
	}
	if !quiet {
		a.Diagnostics.Render(ctx, snap.Diagnostics(), a.stderr)
	}
	return snap, nil
}

// engine runs discovery and wraps the catalog in a query engine.
func (a *App) engine(ctx context.Context, s *session, quiet bool) (*query.Engine, error) {
	snap, err := a.snapshot(ctx, s, quiet)
	if err != nil {
		return nil, err
	}
	return query.NewEngine(snap.Catalog, s.cfg.Search.Weights), nil
}

// renderer returns a renderer for w styled per the session.
func (a *App) renderer(w io.Writer, s *session) (*render.Renderer, error) {
	return render.New(w, render.Options{
		Format:         s.cfg.UI.Format,
		NoColor:        s.cfg.UI.NoColor,
		DarkBackground: s.cfg.UI.ColorScheme.DarkBackground(),
	})
}

// writeStats prints catalog statistics after the main output. Tables go
// to stdout; machine-readable formats keep stdout parseable by writing
// the stats to stderr.
func (a *App) writeStats(s *session, st catalog.Stats) error {
	w := a.stdout
	if s.cfg.UI.Format != render.FormatTable {
		w = a.stderr
	}
	r, err := a.renderer(w, s)
	if err != nil {
		return err
	}
	return r.Stats(st)
}

// Discover builds the enabled providers for cfg and runs them.
func (d *appDiscoveryService) Discover(ctx context.Context, cfg *config.Config) (*discovery.Snapshot, error) {
	enabled := cfg.Discovery.EnabledSources()
	if len(enabled) == 0 {
		err := issue.NewErrorContext().
			WithOperation("discover applications").
			WithSuggestion("Remove some entries from discovery.disabled in your configuration").
			Wrap(ErrNoProviders).
			BuildError()
		return nil, newServiceError(err, issue.NoProvidersAvailableId, "")
	}

	providers := provider.Select(
		provider.Defaults(d.env, provider.Options{StandaloneDirs: cfg.Discovery.StandaloneDirs}),
		enabled...,
	)
	run := discovery.New(providers, discovery.HostNormalizer(d.env),
		discovery.WithTimeout(cfg.Discovery.Timeout),
		discovery.WithMaxParallel(cfg.Discovery.MaxParallel),
	)
	return run.Run(ctx), nil
}

func newExecLauncher() *execLauncher {
	return &execLauncher{
		getenv: os.Getenv,
		start: func(c *exec.Cmd) error {
			if err := c.Start(); err != nil {
				return err
			}
			return c.Process.Release()
		},
	}
}

// Launch splits execLine into words with shell quoting rules and starts
// the program with its standard streams closed.
func (l *execLauncher) Launch(ctx context.Context, execLine string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	args, err := shell.Fields(execLine, l.getenv)
	if err != nil {
		return fmt.Errorf("parse launch command %q: %w", execLine, err)
	}
	if len(args) == 0 {
		return ErrEmptyExec
	}
	// Not bound to ctx: the application outlives appgrep.
	c := exec.Command(args[0], args[1:]...) //nolint:gosec,noctx // detached child
	return l.start(c)
}

// Render logs each diagnostic at warn level.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []discovery.Diagnostic, _ io.Writer) {
	for _, d := range diags {
		slog.Warn(d.Message, "code", d.Code, "source", d.Source)
	}
}
