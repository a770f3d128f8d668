// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"testing"
)

func TestExecLauncher_Launch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		line     string
		wantArgs []string
		wantErr  bool
	}{
		{"plain", "/usr/bin/htop", []string{"/usr/bin/htop"}, false},
		{"quoted", `flatpak run "org.mozilla.firefox" --new-window`, []string{"flatpak", "run", "org.mozilla.firefox", "--new-window"}, false},
		{"spaces in path", `'/opt/My App/app' --flag`, []string{"/opt/My App/app", "--flag"}, false},
		{"expands variables", "$APPDIR/bin/tool", []string{"/opt/tool/bin/tool"}, false},
		{"unterminated quote", `app "oops`, nil, true},
		{"empty", "   ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var started *exec.Cmd
			l := &execLauncher{
				getenv: func(k string) string {
					if k == "APPDIR" {
						return "/opt/tool"
					}
					return ""
				},
				start: func(c *exec.Cmd) error {
					started = c
					return nil
				},
			}

			err := l.Launch(context.Background(), tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Launch(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if tt.wantErr {
				if started != nil {
					t.Error("Launch() started a process on error")
				}
				return
			}
			if !slices.Equal(started.Args, tt.wantArgs) {
				t.Errorf("Launch(%q) args = %q, want %q", tt.line, started.Args, tt.wantArgs)
			}
			if started.Stdin != nil || started.Stdout != nil || started.Stderr != nil {
				t.Error("Launch() attached standard streams")
			}
		})
	}
}

func TestExecLauncher_Errors(t *testing.T) {
	t.Parallel()

	startErr := errors.New("no such file")
	l := &execLauncher{getenv: func(string) string { return "" }, start: func(*exec.Cmd) error { return startErr }}
	if err := l.Launch(context.Background(), "missing"); !errors.Is(err, startErr) {
		t.Errorf("Launch() error = %v, want %v", err, startErr)
	}
	if err := l.Launch(context.Background(), ""); !errors.Is(err, ErrEmptyExec) {
		t.Errorf("Launch(\"\") error = %v, want ErrEmptyExec", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Launch(ctx, "htop"); !errors.Is(err, context.Canceled) {
		t.Errorf("Launch() with canceled context error = %v", err)
	}
}
