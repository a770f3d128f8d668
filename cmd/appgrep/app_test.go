// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/appgrep/appgrep/internal/catalog"
	"github.com/appgrep/appgrep/internal/config"
	"github.com/appgrep/appgrep/internal/discovery"
	"github.com/appgrep/appgrep/internal/issue"
	"github.com/appgrep/appgrep/internal/provider"
	"github.com/appgrep/appgrep/internal/testutil"
)

type (
	fakeConfig struct {
		cfg *config.Config
		err error
	}

	fakeDiscovery struct {
		snap   *discovery.Snapshot
		err    error
		gotCfg *config.Config
	}

	fakeLauncher struct {
		lines []string
		err   error
	}

	cliHarness struct {
		app       *App
		discovery *fakeDiscovery
		launcher  *fakeLauncher
		config    *fakeConfig
		stdout    *bytes.Buffer
		stderr    *bytes.Buffer
	}
)

func (f *fakeConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.cfg != nil {
		cp := *f.cfg
		return &cp, nil
	}
	return config.DefaultConfig(), nil
}

func (f *fakeDiscovery) Discover(_ context.Context, cfg *config.Config) (*discovery.Snapshot, error) {
	f.gotCfg = cfg
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func (f *fakeLauncher) Launch(_ context.Context, execLine string) error {
	f.lines = append(f.lines, execLine)
	return f.err
}

var sampleRecords = []catalog.Record{
	{Name: "Firefox", Exec: "/usr/bin/firefox", Source: catalog.SourceDesktop, Description: "Web Browser"},
	{Name: "Firewall", Exec: "/usr/bin/firewall-config", Source: catalog.SourceDesktop},
	{Name: "htop", Exec: "/usr/bin/htop", Source: catalog.SourceDpkg},
	{Name: "ripgrep", Exec: "/home/u/.cargo/bin/rg", Source: catalog.SourceCargo},
}

// sampleSnapshot mirrors a run where desktop, dpkg and cargo succeeded
// and snap was missing.
func sampleSnapshot() *discovery.Snapshot {
	return &discovery.Snapshot{
		Catalog: catalog.Build(sampleRecords),
		Providers: []discovery.ProviderReport{
			{Source: catalog.SourceDesktop, Probe: provider.Availability{Available: true}, Status: provider.StatusAvailable, Records: sampleRecords[:2], Elapsed: time.Millisecond},
			{Source: catalog.SourceSnap, Probe: provider.Availability{Reason: "snap not found"}, Status: provider.StatusUnavailable, Reason: "snap not found"},
			{Source: catalog.SourceDpkg, Probe: provider.Availability{Available: true}, Status: provider.StatusAvailable, Records: sampleRecords[2:3]},
			{Source: catalog.SourceCargo, Probe: provider.Availability{Available: true}, Status: provider.StatusAvailable, Records: sampleRecords[3:]},
		},
	}
}

func newHarness(t *testing.T) *cliHarness {
	t.Helper()

	h := &cliHarness{
		discovery: &fakeDiscovery{snap: sampleSnapshot()},
		launcher:  &fakeLauncher{},
		config:    &fakeConfig{},
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
	}
	app, err := NewApp(Dependencies{
		Config:    h.config,
		Discovery: h.discovery,
		Launcher:  h.launcher,
		Stdout:    h.stdout,
		Stderr:    h.stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	h.app = app
	return h
}

// run executes args. Not parallel-safe: each run installs the slog default.
func (h *cliHarness) run(args ...string) int {
	return run(context.Background(), h.app, append([]string{"--no-color"}, args...))
}

func TestRun_List(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"names", []string{"list", "-f", "names"}, "Firefox\nFirewall\nhtop\nripgrep\n"},
		{"source filter", []string{"list", "-f", "names", "-s", "cargo"}, "ripgrep\n"},
		{"repeated source", []string{"list", "-f", "names", "-s", "cargo", "-s", "dpkg"}, "htop\nripgrep\n"},
		{"exec", []string{"ls", "-f", "exec", "--source", "dpkg"}, "/usr/bin/htop\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if code := h.run(tt.args...); code != 0 {
				t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
			}
			if got := h.stdout.String(); got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRun_ListStats(t *testing.T) {
	h := newHarness(t)
	if code := h.run("list", "-f", "names", "--stats"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
	}
	if strings.Contains(h.stdout.String(), "total") {
		t.Errorf("stats leaked into machine-readable stdout: %q", h.stdout)
	}
	if !strings.Contains(h.stderr.String(), "total\t4") {
		t.Errorf("stderr = %q, want stats rows", h.stderr)
	}

	h = newHarness(t)
	if code := h.run("list", "--stats"); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(h.stdout.String(), "4 applications") {
		t.Errorf("table stats missing from stdout: %q", h.stdout)
	}
}

func TestRun_InvalidFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{"unknown source", []string{"list", "-s", "bogus"}, "bogus"},
		{"unknown format", []string{"list", "-f", "yaml"}, "yaml"},
		{"zero timeout", []string{"list", "--timeout", "0s"}, "--timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if code := h.run(tt.args...); code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(h.stderr.String(), tt.contains) {
				t.Errorf("stderr = %q, want it to contain %q", h.stderr, tt.contains)
			}
			if h.discovery.gotCfg != nil {
				t.Error("discovery ran despite invalid flags")
			}
		})
	}
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	h := newHarness(t)
	if code := h.run("list", "-f", "names", "--timeout", "2s"); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if got := h.discovery.gotCfg.Discovery.Timeout; got != 2*time.Second {
		t.Errorf("Discovery.Timeout = %s, want 2s", got)
	}
	if !h.discovery.gotCfg.UI.NoColor {
		t.Error("UI.NoColor = false, want true from --no-color")
	}
}

func TestRun_ConfigFailureFallsBackToDefaults(t *testing.T) {
	h := newHarness(t)
	h.config.err = issue.NewErrorContext().WithOperation("load configuration").Wrap(errors.New("bad field")).BuildError()

	if code := h.run("list", "-f", "names"); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(h.stderr.String(), "Warning") || !strings.Contains(h.stderr.String(), "bad field") {
		t.Errorf("stderr = %q, want a configuration warning", h.stderr)
	}
	if h.discovery.gotCfg.Discovery.Timeout != config.DefaultTimeout {
		t.Errorf("Discovery.Timeout = %s, want default", h.discovery.gotCfg.Discovery.Timeout)
	}
}

func TestRun_Search(t *testing.T) {
	h := newHarness(t)
	if code := h.run("search", "fire", "-f", "names"); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if got, want := h.stdout.String(), "Firefox\nFirewall\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}

	h = newHarness(t)
	if code := h.run("search", "zzz", "-f", "json"); code != 0 {
		t.Fatalf("exit code = %d, want 0 for no matches", code)
	}
	if got := strings.TrimSpace(h.stdout.String()); got != "[]" {
		t.Errorf("stdout = %q, want []", got)
	}
}

func TestRun_Has(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
	}{
		{"found", []string{"has", "FIREFOX"}, 0, ""},
		{"not found", []string{"has", "chrome"}, 1, ""},
		{"unique near match", []string{"has", "hto"}, 0, ""},
		{"ambiguous prefix", []string{"has", "fire"}, 1, ""},
		{"json found", []string{"has", "htop", "-f", "json"}, 0, `"found": true`},
		{"json near match reports resolved record", []string{"has", "ripg", "-f", "json"}, 0, `"name": "ripgrep"`},
		{"json not found", []string{"has", "chrome", "-f", "json"}, 1, `"found": false`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			if code := h.run(tt.args...); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if tt.wantStdout == "" && h.stdout.Len() != 0 {
				t.Errorf("stdout = %q, want silence", h.stdout)
			}
			if !strings.Contains(h.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", h.stdout, tt.wantStdout)
			}
			if h.stderr.Len() != 0 {
				t.Errorf("stderr = %q, want silence", h.stderr)
			}
		})
	}
}

func TestRun_HasIgnoresProviderDiagnostics(t *testing.T) {
	h := newHarness(t)
	snap := sampleSnapshot()
	snap.Providers = append(snap.Providers, discovery.ProviderReport{
		Source: catalog.SourceRpm, Status: provider.StatusFailed, Err: errors.New("rpm exploded"),
	})
	h.discovery.snap = snap

	if code := h.run("has", "htop"); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if h.stderr.Len() != 0 {
		t.Errorf("stderr = %q, want silence", h.stderr)
	}

	h.stderr.Reset()
	if code := h.run("list", "-f", "names"); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(h.stderr.String(), "rpm exploded") {
		t.Errorf("list stderr = %q, want the provider failure", h.stderr)
	}
}

func TestRun_Info(t *testing.T) {
	h := newHarness(t)
	if code := h.run("info", "ripgrep"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
	}
	if !strings.Contains(h.stdout.String(), "/home/u/.cargo/bin/rg") {
		t.Errorf("stdout = %q, want the exec path", h.stdout)
	}
}

func TestRun_InfoAmbiguous(t *testing.T) {
	h := newHarness(t)
	if code := h.run("info", "fire"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	for _, want := range []string{"Firefox (desktop)", "Firewall (desktop)"} {
		if !strings.Contains(h.stderr.String(), want) {
			t.Errorf("stderr = %q, want candidate %q", h.stderr, want)
		}
	}
	if h.stdout.Len() != 0 {
		t.Errorf("stdout = %q, want nothing", h.stdout)
	}
}

func TestRun_InfoNotFoundSuggests(t *testing.T) {
	h := newHarness(t)
	if code := h.run("info", "htpo"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), "htop") {
		t.Errorf("stderr = %q, want a suggestion for htop", h.stderr)
	}
}

func TestRun_Path(t *testing.T) {
	h := newHarness(t)
	if code := h.run("path", "rg"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
	}
	if got, want := h.stdout.String(), "/home/u/.cargo/bin/rg\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestRun_Run(t *testing.T) {
	h := newHarness(t)
	if code := h.run("run", "htop"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
	}
	if !slices.Equal(h.launcher.lines, []string{"/usr/bin/htop"}) {
		t.Errorf("launched %v, want [/usr/bin/htop]", h.launcher.lines)
	}

	h = newHarness(t)
	h.launcher.err = errors.New("permission denied")
	if code := h.run("run", "htop"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), "launch application") {
		t.Errorf("stderr = %q, want the launch failure", h.stderr)
	}

	h = newHarness(t)
	if code := h.run("run", "fire"); code != 1 {
		t.Errorf("ambiguous run exit code = %d, want 1", code)
	}
	if len(h.launcher.lines) != 0 {
		t.Errorf("ambiguous name launched %v", h.launcher.lines)
	}
}

func TestRun_Doctor(t *testing.T) {
	h := newHarness(t)
	if code := h.run("doctor", "-f", "tsv"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
	}
	out := h.stdout.String()
	for _, want := range []string{"desktop\tavailable\t2\t", "snap\tunavailable\t0\t", "cargo\tavailable\t1\t"} {
		if !strings.Contains(out, want) {
			t.Errorf("doctor output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_DiscoveryError(t *testing.T) {
	h := newHarness(t)
	h.discovery.err = newServiceError(ErrNoProviders, issue.NoProvidersAvailableId, "")

	if code := h.run("list"); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), ErrNoProviders.Error()) {
		t.Errorf("stderr = %q, want %q", h.stderr, ErrNoProviders)
	}
}

func TestRun_Config(t *testing.T) {
	h := newHarness(t)
	if code := h.run("config", "dump"); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(h.stdout.String(), "discovery: {") {
		t.Errorf("config dump = %q", h.stdout)
	}

	h = newHarness(t)
	if code := h.run("config", "path", "--config", "/tmp/custom.cue"); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if got := h.stdout.String(); got != "/tmp/custom.cue\n" {
		t.Errorf("config path = %q", got)
	}

	h = newHarness(t)
	if code := h.run("config", "show"); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(h.stdout.String(), "sample_size") {
		t.Errorf("config show = %q", h.stdout)
	}

	h = newHarness(t)
	h.config.err = errors.New("broken")
	if code := h.run("config", "show"); code != 1 {
		t.Errorf("config show with broken config exit code = %d, want 1", code)
	}
}

func TestRun_ConfigInit(t *testing.T) {
	path := t.TempDir() + "/appgrep/config.cue"

	h := newHarness(t)
	if code := h.run("config", "init", "--config", path); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
	}
	if !strings.Contains(h.stdout.String(), "Created default configuration") {
		t.Errorf("stdout = %q", h.stdout)
	}
	if got := testutil.MustReadFile(t, path); !strings.Contains(got, "discovery: {") {
		t.Errorf("written config = %q", got)
	}

	h = newHarness(t)
	if code := h.run("config", "init", "--config", path); code != 0 {
		t.Fatalf("second init exit code = %d", code)
	}
	if !strings.Contains(h.stdout.String(), "already exists") {
		t.Errorf("stdout = %q", h.stdout)
	}
}

func TestRun_ConfigInitFailure(t *testing.T) {
	blocker := t.TempDir() + "/not-a-dir"
	testutil.MustWriteFile(t, blocker, "x")

	h := newHarness(t)
	if code := h.run("config", "init", "--config", blocker+"/config.cue"); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), "failed to create default configuration") {
		t.Errorf("stderr = %q, want the failed operation", h.stderr)
	}
}

func TestAppDiscoveryService_Discover(t *testing.T) {
	t.Parallel()

	hostFS := testutil.NewHostFS().
		File("/usr/share/applications/firefox.desktop", "[Desktop Entry]\nName=Firefox\nExec=/usr/bin/firefox %u\n")
	svc := &appDiscoveryService{env: provider.Env{
		Runner: testutil.NewFakeRunner(),
		FS:     hostFS.FS(),
		Getenv: func(string) string { return "" },
		Home:   "/home/u",
	}}

	cfg := config.DefaultConfig()
	for _, s := range catalog.AllSources() {
		if s != catalog.SourceDesktop && s != catalog.SourceSnap {
			cfg.Discovery.Disabled = append(cfg.Discovery.Disabled, s)
		}
	}
	snap, err := svc.Discover(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(snap.Providers) != 2 {
		t.Fatalf("len(Providers) = %d, want 2", len(snap.Providers))
	}
	if snap.Providers[1].Status != provider.StatusUnavailable {
		t.Errorf("snap status = %s, want unavailable", snap.Providers[1].Status)
	}
	recs := snap.Catalog.Records()
	if len(recs) != 1 || recs[0].Name != "Firefox" || recs[0].Exec != "/usr/bin/firefox" {
		t.Errorf("Records() = %+v", recs)
	}

	cfg.Discovery.Disabled = catalog.AllSources()
	_, err = svc.Discover(context.Background(), cfg)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.NoProvidersAvailableId {
		t.Errorf("Discover() with all sources disabled error = %v, want NoProvidersAvailable", err)
	}
	if !errors.Is(err, ErrNoProviders) {
		t.Errorf("errors.Is(err, ErrNoProviders) = false")
	}
}
