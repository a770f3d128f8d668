// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/appgrep/appgrep/internal/config"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version, Commit, BuildDate = "v0.3.0", "abc1234", "2026-01-15T10:00:00Z"

		want := "v0.3.0 (commit: abc1234, built: 2026-01-15T10:00:00Z)"
		if got := getVersionString(); got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q", got)
		}
	})
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("boom"), 1},
		{"exit error", &ExitError{Code: 3}, 3},
		{"wrapped exit error", errors.Join(errors.New("ctx"), &ExitError{Code: 2}), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	silent := &ExitError{Code: 1}
	if !silent.silent() || silent.Error() != "exit status 1" || silent.Unwrap() != nil {
		t.Errorf("ExitError{Code: 1} = %q silent=%v", silent.Error(), silent.silent())
	}

	cause := errors.New("cause")
	loud := &ExitError{Code: 2, Err: cause}
	if loud.silent() || loud.Error() != "cause" || !errors.Is(loud, cause) {
		t.Errorf("ExitError with cause = %q silent=%v", loud.Error(), loud.silent())
	}
}

func TestIssueStyle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ui   config.UIConfig
		want string
	}{
		{config.UIConfig{ColorScheme: config.ColorSchemeAuto}, "auto"},
		{config.UIConfig{ColorScheme: config.ColorSchemeDark}, "dark"},
		{config.UIConfig{ColorScheme: config.ColorSchemeLight}, "light"},
		{config.UIConfig{ColorScheme: config.ColorSchemeDark, NoColor: true}, "notty"},
	}

	for _, tt := range tests {
		if got := issueStyle(tt.ui); got != tt.want {
			t.Errorf("issueStyle(%+v) = %q, want %q", tt.ui, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger(&buf, false)
	logger.Debug("hidden")
	logger.Warn("shown", "source", "snap")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "appgrep") {
		t.Errorf("quiet logger output = %q", out)
	}

	buf.Reset()
	newLogger(&buf, true).Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("verbose logger output = %q", buf.String())
	}
}

func TestRun_Version(t *testing.T) {
	h := newHarness(t)
	if code := h.run("--version"); code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, h.stderr)
	}
	if !strings.Contains(h.stdout.String(), "dev") {
		t.Errorf("stdout = %q, want the version", h.stdout)
	}
}
