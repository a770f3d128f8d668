// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/appgrep/appgrep/internal/catalog"
	"github.com/appgrep/appgrep/internal/issue"
	"github.com/appgrep/appgrep/internal/query"
)

func TestNewServiceError_PanicsOnNilErr(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on nil Err, got none")
		}
		if msg, ok := r.(string); !ok || msg != "ServiceError: Err must not be nil" {
			t.Fatalf("unexpected panic value: %v", r)
		}
	}()

	newServiceError(nil, 0, "")
}

func TestServiceError_ErrorAndUnwrap(t *testing.T) {
	t.Parallel()

	underlying := errors.New("underlying error")
	svcErr := newServiceError(underlying, issue.LaunchFailedId, "styled")

	if svcErr.Error() != "underlying error" {
		t.Errorf("Error() = %q, want %q", svcErr.Error(), "underlying error")
	}
	if !errors.Is(svcErr, underlying) {
		t.Error("errors.Is should find underlying error via Unwrap")
	}
	if svcErr.IssueID != issue.LaunchFailedId || svcErr.StyledMessage != "styled" {
		t.Errorf("newServiceError() = %+v", svcErr)
	}
}

func TestRenderServiceError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	renderServiceError(&buf, nil, "notty")
	if buf.Len() != 0 {
		t.Errorf("nil ServiceError rendered %q", buf.String())
	}

	renderServiceError(&buf, newServiceError(errors.New("x"), 0, "styled only\n"), "notty")
	if got := buf.String(); got != "styled only\n" {
		t.Errorf("output = %q, want the styled message only", got)
	}

	buf.Reset()
	renderServiceError(&buf, newServiceError(errors.New("x"), issue.InvalidFormatId, "first\n"), "notty")
	out := buf.String()
	if !strings.HasPrefix(out, "first\n") || !strings.Contains(out, "Unknown output format") {
		t.Errorf("output = %q, want styled message then issue help", out)
	}
}

func TestResolutionError(t *testing.T) {
	t.Parallel()

	notFound := resolutionError("htpo", &query.NotFoundError{Name: "htpo", Suggestions: []string{"htop"}})
	var svcErr *ServiceError
	if !errors.As(notFound, &svcErr) || svcErr.IssueID != issue.NameNotFoundId {
		t.Fatalf("resolutionError(NotFound) = %v, want NameNotFound service error", notFound)
	}
	var ae *issue.ActionableError
	if !errors.As(notFound, &ae) || len(ae.Suggestions) != 1 || !strings.Contains(ae.Suggestions[0], "htop") {
		t.Errorf("suggestions = %v, want htop", ae)
	}
	if !errors.Is(notFound, query.ErrNameNotFound) {
		t.Error("errors.Is(ErrNameNotFound) = false")
	}

	bare := resolutionError("zzz", &query.NotFoundError{Name: "zzz"})
	if !errors.As(bare, &ae) || len(ae.Suggestions) != 0 {
		t.Errorf("resolutionError(no suggestions) suggestions = %v, want none", ae.Suggestions)
	}

	ambiguous := resolutionError("fire", &query.AmbiguousError{Name: "fire", Candidates: []catalog.Record{
		{Name: "Firefox", Source: catalog.SourceDesktop, Exec: "firefox"},
		{Name: "Firewall", Source: catalog.SourceDesktop, Exec: "firewall"},
	}})
	if !errors.As(ambiguous, &svcErr) || svcErr.IssueID != issue.NameAmbiguousId {
		t.Fatalf("resolutionError(Ambiguous) = %v, want NameAmbiguous service error", ambiguous)
	}
	if !strings.Contains(svcErr.StyledMessage, "Firewall (desktop)") {
		t.Errorf("StyledMessage = %q, want candidates", svcErr.StyledMessage)
	}

	other := errors.New("other")
	if got := resolutionError("x", other); got != other {
		t.Errorf("resolutionError(other) = %v, want passthrough", got)
	}
}
