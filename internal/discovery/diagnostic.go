// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"time"

	"github.com/appgrep/appgrep/internal/catalog"
	"github.com/appgrep/appgrep/internal/provider"
)

const (
	// SeverityWarning indicates a provider that ran out of time.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a provider that failed.
	SeverityError Severity = "error"

	// CodeProviderFailed marks a provider that returned an error or panicked.
	CodeProviderFailed = "provider_failed"
	// CodeProviderTimedOut marks a provider that exceeded its deadline.
	CodeProviderTimedOut = "provider_timed_out"
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// Diagnostic is a structured, non-fatal discovery problem. Diagnostics
	// are returned to callers instead of written to stderr so the CLI layer
	// decides how and whether to show them.
	Diagnostic struct {
		Severity Severity
		// Code is a machine-readable identifier such as "provider_failed".
		Code    string
		Source  catalog.Source
		Message string
		Cause   error
	}
)

// Diagnostics lists the providers that failed or timed out, in
// registration order. Unavailable providers are expected and not reported.
func (s *Snapshot) Diagnostics() []Diagnostic {
	var diags []Diagnostic
	for _, p := range s.Providers {
		switch p.Status {
		case provider.StatusFailed:
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				Code:     CodeProviderFailed,
				Source:   p.Source,
				Message:  fmt.Sprintf("%s provider failed: %v", p.Source, p.Err),
				Cause:    p.Err,
			})
		case provider.StatusTimedOut:
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeProviderTimedOut,
				Source:   p.Source,
				Message:  fmt.Sprintf("%s provider timed out after %s", p.Source, p.Elapsed.Round(time.Millisecond)),
				Cause:    p.Err,
			})
		}
	}
	return diags
}
