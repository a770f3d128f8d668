// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestFakeRunner(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := NewFakeRunner().Tool("flatpak").On("flatpak list --app", "Firefox\n")
	r.Tool("snap").Commands["snap list"] = FakeResult{Err: boom}

	if p, err := r.LookPath("flatpak"); err != nil || p != "/usr/bin/flatpak" {
		t.Errorf("LookPath(flatpak) = %q, %v", p, err)
	}
	if _, err := r.LookPath("rpm"); !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("LookPath(rpm) error = %v, want exec.ErrNotFound", err)
	}

	ctx := context.Background()
	if out, err := r.Run(ctx, "flatpak", "list", "--app"); err != nil || string(out) != "Firefox\n" {
		t.Errorf("Run(flatpak list --app) = %q, %v", out, err)
	}
	if _, err := r.Run(ctx, "snap", "list"); !errors.Is(err, boom) {
		t.Errorf("Run(snap list) error = %v, want %v", err, boom)
	}
	if _, err := r.Run(ctx, "flatpak", "info"); err == nil {
		t.Error("Run() of an unscripted command succeeded")
	}
	if _, err := r.Run(ctx, "rpm", "-qa"); !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("Run(rpm) error = %v, want exec.ErrNotFound", err)
	}

	want := []string{"flatpak list --app", "snap list", "flatpak info", "rpm -qa"}
	if got := r.Calls(); !slices.Equal(got, want) {
		t.Errorf("Calls() = %q, want %q", got, want)
	}
}

func TestFakeRunner_DelayHonorsContext(t *testing.T) {
	t.Parallel()

	r := NewFakeRunner().Tool("brew")
	r.Commands["brew list"] = FakeResult{Stdout: "late", Delay: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := r.Run(ctx, "brew", "list"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestHostFS(t *testing.T) {
	t.Parallel()

	fsys := NewHostFS().
		File("/etc/os-release", "ID=test\n").
		Exec("/usr/bin/tool").
		ELF("/usr/bin/real").
		Dir("/opt").
		Symlink("/usr/bin/alias", "/usr/bin/real").
		FS()

	tests := []struct {
		path string
		mode fs.FileMode
	}{
		{"etc/os-release", 0o644},
		{"usr/bin/tool", 0o755},
		{"usr/bin/real", 0o755},
		{"opt", fs.ModeDir | 0o755},
		{"usr/bin/alias", fs.ModeSymlink | 0o777},
	}
	for _, tt := range tests {
		if got := fsys[tt.path].Mode; got != tt.mode {
			t.Errorf("mode of %s = %v, want %v", tt.path, got, tt.mode)
		}
	}
	if got := string(fsys["usr/bin/real"].Data[:4]); got != "\x7fELF" {
		t.Errorf("ELF header = %q", got)
	}
}

func TestMustWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "config.cue")
	MustWriteFile(t, path, "ui: {}\n")
	if got := MustReadFile(t, path); got != "ui: {}\n" {
		t.Errorf("MustReadFile() = %q", got)
	}
}

func TestMustSetenv(t *testing.T) {
	// Not parallel: mutates the process environment.
	const key = "APPGREP_TESTUTIL_PROBE"

	restore := MustSetenv(t, key, "one")
	unset := MustUnsetenv(t, key)
	if _, ok := os.LookupEnv(key); ok {
		t.Errorf("%s still set after MustUnsetenv", key)
	}
	unset()
	if v, _ := os.LookupEnv(key); v != "one" {
		t.Errorf("%s = %q after restore, want one", key, v)
	}
	restore()
	if _, ok := os.LookupEnv(key); ok {
		t.Errorf("%s set after final restore", key)
	}
}
