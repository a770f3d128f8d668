// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appgrep/appgrep/internal/catalog"
)

const (
	// StatusAvailable means the provider ran and produced records.
	StatusAvailable Status = iota + 1
	// StatusUnavailable means the provider's backing tool or data is absent.
	StatusUnavailable
	// StatusFailed means the provider ran but could not produce records.
	StatusFailed
	// StatusTimedOut means the provider exceeded its deadline.
	StatusTimedOut
)

var (
	// ErrUnavailable is wrapped by errors for unavailable providers.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrFailed is wrapped by errors for failed providers.
	ErrFailed = errors.New("provider failed")
	// ErrTimedOut is wrapped by errors for providers that ran out of time.
	ErrTimedOut = errors.New("provider timed out")
)

type (
	// Status is the terminal state of one provider run.
	Status int

	// Provider discovers the applications known to one packaging system.
	// Implementations must be safe to call from their own goroutine and
	// must stop promptly once ctx is done.
	Provider interface {
		Source() catalog.Source
		// Probe is a cheap check for whether the provider can run at all.
		Probe(ctx context.Context) Availability
		// Discover enumerates applications. It reports problems through the
		// returned Outcome rather than panicking.
		Discover(ctx context.Context) Outcome
	}

	// Availability is the result of Probe.
	Availability struct {
		Available bool
		// Reason explains why the provider is unavailable.
		Reason string
	}

	// Outcome is the result of one provider run. Records is set only when
	// Status is StatusAvailable; Reason only for StatusUnavailable; Err for
	// StatusFailed and StatusTimedOut.
	Outcome struct {
		Source  catalog.Source
		Status  Status
		Records []catalog.RawRecord
		Reason  string
		Err     error
	}

	// Error describes an Outcome that is not StatusAvailable. It matches the
	// status sentinel and the underlying cause with errors.Is.
	Error struct {
		Source catalog.Source
		Status Status
		Reason string
		Cause  error
	}
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusAvailable:
		return "available"
	case StatusUnavailable:
		return "unavailable"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed out"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Available builds a successful Outcome.
func Available(src catalog.Source, records []catalog.RawRecord) Outcome {
	return Outcome{Source: src, Status: StatusAvailable, Records: records}
}

// Unavailable builds an Outcome for a provider that cannot run here.
func Unavailable(src catalog.Source, reason string) Outcome {
	return Outcome{Source: src, Status: StatusUnavailable, Reason: reason}
}

// Failed builds an Outcome for a provider that broke while running.
func Failed(src catalog.Source, err error) Outcome {
	return Outcome{Source: src, Status: StatusFailed, Err: err}
}

// TimedOut builds an Outcome for a provider that exceeded limit.
func TimedOut(src catalog.Source, limit time.Duration) Outcome {
	return Outcome{
		Source: src,
		Status: StatusTimedOut,
		Err:    fmt.Errorf("no result within %s: %w", limit, context.DeadlineExceeded),
	}
}

// Error returns nil for an available Outcome and an *Error otherwise.
func (o Outcome) Error() error {
	if o.Status == StatusAvailable {
		return nil
	}
	return &Error{Source: o.Source, Status: o.Status, Reason: o.Reason, Cause: o.Err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%s provider %s: %v", e.Source, e.Status, e.Cause)
	case e.Reason != "":
		return fmt.Sprintf("%s provider %s: %s", e.Source, e.Status, e.Reason)
	default:
		return fmt.Sprintf("%s provider %s", e.Source, e.Status)
	}
}

// Unwrap returns the status sentinel and the cause.
func (e *Error) Unwrap() []error {
	var sentinel error
	switch e.Status {
	case StatusUnavailable:
		sentinel = ErrUnavailable
	case StatusTimedOut:
		sentinel = ErrTimedOut
	default:
		sentinel = ErrFailed
	}
	if e.Cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Cause}
}
