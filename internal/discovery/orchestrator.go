// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/appgrep/appgrep/internal/provider"
)

// DefaultTimeout bounds each provider run when no timeout is configured.
const DefaultTimeout = 5 * time.Second

type (
	// Orchestrator runs providers concurrently, each under its own deadline,
	// and isolates their failures from one another.
	Orchestrator struct {
		timeout     time.Duration
		maxParallel int
	}

	// Option configures an Orchestrator.
	Option func(*Orchestrator)

	// Result is the settled state of one provider.
	Result struct {
		Outcome provider.Outcome
		// Probe is the zero value when the provider never finished probing.
		Probe   provider.Availability
		Elapsed time.Duration
	}

	// PanicError carries the value a provider panicked with.
	PanicError struct {
		Value any
	}
)

// WithTimeout sets the per-provider deadline. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithMaxParallel bounds how many providers run at once. Zero means no bound.
func WithMaxParallel(n int) Option {
	return func(o *Orchestrator) {
		if n >= 0 {
			o.maxParallel = n
		}
	}
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Timeout returns the per-provider deadline.
func (o *Orchestrator) Timeout() time.Duration { return o.timeout }

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("provider panicked: %v", e.Value)
}

// Run executes every provider and returns exactly one Result per provider,
// in the same order. It returns once every provider has settled; a
// provider that overruns its deadline is reported as timed out and any
// output it produces later is discarded.
func (o *Orchestrator) Run(ctx context.Context, providers []provider.Provider) []Result {
	results := make([]Result, len(providers))

	var g errgroup.Group
	if o.maxParallel > 0 {
		g.SetLimit(o.maxParallel)
	}
	for i, p := range providers {
		g.Go(func() error {
			results[i] = o.runOne(ctx, p)
			return nil
		})
	}
	_ = g.Wait() // runOne never returns an error

	return results
}

func (o *Orchestrator) runOne(ctx context.Context, p provider.Provider) Result {
	src := p.Source()
	start := time.Now()
	pctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		var probe provider.Availability
		defer func() {
			if r := recover(); r != nil {
				done <- Result{Outcome: provider.Failed(src, &PanicError{Value: r}), Probe: probe}
			}
		}()

		probe = p.Probe(pctx)
		if !probe.Available {
			done <- Result{Outcome: provider.Unavailable(src, probe.Reason), Probe: probe}
			return
		}
		done <- Result{Outcome: p.Discover(pctx), Probe: probe}
	}()

	var res Result
	select {
	case res = <-done:
		if errors.Is(pctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			res.Outcome = provider.TimedOut(src, o.timeout)
		}
	case <-pctx.Done():
		if ctx.Err() != nil {
			res.Outcome = provider.Failed(src, ctx.Err())
		} else {
			res.Outcome = provider.TimedOut(src, o.timeout)
		}
	}
	res.Outcome.Source = src
	res.Elapsed = time.Since(start)

	switch res.Outcome.Status {
	case provider.StatusAvailable:
		slog.Debug("provider finished", "source", src, "records", len(res.Outcome.Records), "elapsed", res.Elapsed)
	case provider.StatusUnavailable:
		slog.Debug("provider unavailable", "source", src, "reason", res.Outcome.Reason)
	default:
		slog.Debug("provider did not complete", "source", src, "status", res.Outcome.Status, "error", res.Outcome.Err)
	}
	return res
}
