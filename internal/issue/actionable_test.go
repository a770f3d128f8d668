// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation only", &ActionableError{Operation: "load configuration"}, "failed to load configuration"},
		{"with resource", &ActionableError{Operation: "load configuration", Resource: "/etc/appgrep.cue"}, "failed to load configuration: /etc/appgrep.cue"},
		{
			"with cause",
			&ActionableError{Operation: "resolve application", Resource: "firefix", Cause: errors.New("not found")},
			"failed to resolve application: firefix: not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := NewErrorContext().WithOperation("launch").Wrap(fmt.Errorf("start: %w", sentinel)).BuildError()
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is() through ActionableError = false")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Error("errors.As(*ActionableError) = false")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("exit status 1")
	err := &ActionableError{
		Operation:   "launch application",
		Resource:    "Firefox",
		Suggestions: []string{"Run 'appgrep path Firefox'", "Reinstall it"},
		Cause:       fmt.Errorf("start firefox: %w", inner),
	}

	plain := err.Format(false)
	for _, want := range []string{"failed to launch application: Firefox", "• Run 'appgrep path Firefox'", "• Reinstall it"} {
		if !strings.Contains(plain, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "Error chain") {
		t.Error("Format(false) includes the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "1. start firefox: exit status 1") || !strings.Contains(verbose, "2. exit status 1") {
		t.Errorf("Format(true) chain wrong:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation != nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation != nil")
	}

	ae := NewErrorContext().
		WithOperation("resolve application").
		WithResource("fire").
		WithSuggestion("").
		WithSuggestions("Firefox", "Firewall").
		WithIssue(NameAmbiguousId).
		Build()
	if len(ae.Suggestions) != 2 {
		t.Errorf("Suggestions = %v, want empty suggestion dropped", ae.Suggestions)
	}
	if ae.Issue() == nil || ae.Issue().Id() != NameAmbiguousId {
		t.Errorf("Issue() = %v, want NameAmbiguous", ae.Issue())
	}
	if (&ActionableError{Operation: "x"}).Issue() != nil {
		t.Error("Issue() without id != nil")
	}
}

func TestWrapWithOperation(t *testing.T) {
	t.Parallel()

	if WrapWithOperation(nil, "x") != nil {
		t.Error("WrapWithOperation(nil) != nil")
	}
	cause := errors.New("boom")
	ae := WrapWithOperation(cause, "discover applications")
	if ae.Operation != "discover applications" || !errors.Is(ae, cause) {
		t.Errorf("WrapWithOperation() = %+v", ae)
	}
}
