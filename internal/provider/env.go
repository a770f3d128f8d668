// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// elfMagic is the first four bytes of every ELF object.
var elfMagic = []byte{0x7f, 'E', 'L', 'F'}

type (
	// ExecCommandFunc creates an exec.Cmd. It matches exec.CommandContext
	// so tests can substitute their own process factory.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Runner runs external tools on behalf of providers.
	Runner interface {
		// LookPath resolves a command name on PATH.
		LookPath(name string) (string, error)
		// Run executes name with args and returns its standard output.
		// A non-zero exit is reported as a *CommandError.
		Run(ctx context.Context, name string, args ...string) ([]byte, error)
	}

	// CommandError reports a tool that exited unsuccessfully.
	CommandError struct {
		Name     string
		Args     []string
		ExitCode int
		Stderr   string
	}

	// ExecRunner runs real subprocesses. Cancelling the context kills the child.
	ExecRunner struct {
		execCommand ExecCommandFunc
		lookPath    func(string) (string, error)
	}

	// Env is everything a provider reads from the host. FS is rooted at "/"
	// and is addressed with absolute paths through the helper methods.
	Env struct {
		Runner Runner
		FS     fs.FS
		Getenv func(string) string
		Home   string
	}
)

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{execCommand: exec.CommandContext, lookPath: exec.LookPath}
}

// LookPath implements Runner.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return r.lookPath(name)
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := r.execCommand(ctx, name, args...)
	cmd.WaitDelay = time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s: %w", name, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, &CommandError{
			Name:     name,
			Args:     args,
			ExitCode: exitErr.ExitCode(),
			Stderr:   strings.TrimSpace(stderr.String()),
		}
	}
	return nil, fmt.Errorf("run %s: %w", name, err)
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: exit status %d", e.Name, strings.Join(e.Args, " "), e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// HostEnv returns an Env reading the real machine.
func HostEnv() Env {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return Env{
		Runner: NewExecRunner(),
		FS:     os.DirFS("/"),
		Getenv: os.Getenv,
		Home:   home,
	}
}

// fsName maps an absolute host path to an fs.FS name.
func fsName(p string) string {
	p = strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "/")
	if p == "" {
		return "."
	}
	return p
}

// getenv tolerates a nil Getenv.
func (e Env) getenv(key string) string {
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(key)
}

// ReadFile reads an absolute path.
func (e Env) ReadFile(p string) ([]byte, error) {
	return fs.ReadFile(e.FS, fsName(p))
}

// ReadDir lists an absolute path.
func (e Env) ReadDir(p string) ([]fs.DirEntry, error) {
	return fs.ReadDir(e.FS, fsName(p))
}

// Stat follows symlinks.
func (e Env) Stat(p string) (fs.FileInfo, error) {
	return fs.Stat(e.FS, fsName(p))
}

// Lstat does not follow symlinks.
func (e Env) Lstat(p string) (fs.FileInfo, error) {
	return fs.Lstat(e.FS, fsName(p))
}

// ReadLink returns the destination of a symlink as an absolute, clean path.
func (e Env) ReadLink(p string) (string, error) {
	target, err := fs.ReadLink(e.FS, fsName(p))
	if err != nil {
		return "", err
	}
	if !path.IsAbs(target) {
		target = path.Join(path.Dir(p), target)
	}
	return path.Clean(target), nil
}

// IsDir reports whether p exists and is a directory.
func (e Env) IsDir(p string) bool {
	info, err := e.Stat(p)
	return err == nil && info.IsDir()
}

// Exists reports whether p exists.
func (e Env) Exists(p string) bool {
	_, err := e.Stat(p)
	return err == nil
}

// IsExecutable reports whether p is a regular file with an execute bit.
func (e Env) IsExecutable(p string) bool {
	info, err := e.Stat(p)
	return err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

// IsELF reports whether p starts with the ELF magic number.
func (e Env) IsELF(p string) bool {
	f, err := e.FS.Open(fsName(p))
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }() // Read-only file; close error non-critical

	head := make([]byte, len(elfMagic))
	if _, err := io.ReadFull(f, head); err != nil {
		return false
	}
	return bytes.Equal(head, elfMagic)
}

// PathDirs returns the entries of $PATH, or common defaults when unset.
func (e Env) PathDirs() []string {
	raw := e.getenv("PATH")
	if raw == "" {
		return []string{"/usr/local/bin", "/usr/bin", "/bin"}
	}
	var dirs []string
	for _, d := range filepath.SplitList(raw) {
		if d != "" && path.IsAbs(d) {
			dirs = append(dirs, path.Clean(d))
		}
	}
	return dirs
}

// lookPath resolves a tool; a missing Runner reports not found.
func (e Env) lookPath(name string) (string, error) {
	if e.Runner == nil {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return e.Runner.LookPath(name)
}

func (e Env) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if e.Runner == nil {
		return nil, &exec.Error{Name: name, Err: exec.ErrNotFound}
	}
	return e.Runner.Run(ctx, name, args...)
}

// home returns the home directory, falling back to $HOME.
func (e Env) home() string {
	if e.Home != "" {
		return e.Home
	}
	return e.getenv("HOME")
}
