// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

type (
	// FakeResult is the scripted response to one command line.
	FakeResult struct {
		Stdout string
		Err    error
		// Delay holds the call before responding; a done context ends it early.
		Delay time.Duration
	}

	// FakeRunner answers Run and LookPath calls from scripted tables.
	// Commands are keyed by the command name and arguments joined by spaces.
	// It is safe for concurrent use.
	FakeRunner struct {
		// Paths maps tool names to the path LookPath returns.
		Paths map[string]string
		// Commands maps command lines to their results.
		Commands map[string]FakeResult

		mu    sync.Mutex
		calls []string
	}
)

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Paths:    make(map[string]string),
		Commands: make(map[string]FakeResult),
	}
}

// Tool registers name as installed at /usr/bin/<name> and returns r.
func (r *FakeRunner) Tool(name string) *FakeRunner {
	r.Paths[name] = "/usr/bin/" + name
	return r
}

// On scripts the stdout of a command line and returns r.
func (r *FakeRunner) On(cmdline, stdout string) *FakeRunner {
	r.Commands[cmdline] = FakeResult{Stdout: stdout}
	return r
}

// LookPath returns the registered path or an exec.ErrNotFound error.
func (r *FakeRunner) LookPath(name string) (string, error) {
	if p, ok := r.Paths[name]; ok {
		return p, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Run returns the scripted result. A tool missing from Paths fails with
// exec.ErrNotFound; an unscripted command line fails with an error.
func (r *FakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")
	r.mu.Lock()
	r.calls = append(r.calls, cmdline)
	r.mu.Unlock()

	if _, err := r.LookPath(name); err != nil {
		return nil, err
	}
	res, ok := r.Commands[cmdline]
	if !ok {
		return nil, fmt.Errorf("unexpected command %q", cmdline)
	}
	if res.Delay > 0 {
		timer := time.NewTimer(res.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return []byte(res.Stdout), nil
}

// Calls returns the command lines run so far, in call order.
func (r *FakeRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}
