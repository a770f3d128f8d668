// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/appgrep/appgrep/internal/issue"
	"github.com/appgrep/appgrep/internal/query"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer: a pre-styled message and an issue catalog entry.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError prints any styled message, then the issue help
// rendered with the glamour style named by issueStyle.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, issueStyle string) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(issueStyle)
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// resolutionError turns a query resolution failure for name into a
// ServiceError. Other errors pass through unchanged.
func resolutionError(name string, err error) error {
	var notFound *query.NotFoundError
	if errors.As(err, &notFound) {
		hints := make([]string, len(notFound.Suggestions))
		for i, s := range notFound.Suggestions {
			hints[i] = "Did you mean " + CmdStyle.Render(s) + "?"
		}
		findErr := issue.NewErrorContext().
			WithOperation("find application").
			WithResource(name).
			WithSuggestions(hints...).
			WithIssue(issue.NameNotFoundId).
			Wrap(err).
			BuildError()
		return newServiceError(findErr, issue.NameNotFoundId, "")
	}

	var ambiguous *query.AmbiguousError
	if errors.As(err, &ambiguous) {
		var msg strings.Builder
		fmt.Fprintf(&msg, "%s %q matches %d applications:\n", ErrorStyle.Render("Ambiguous name:"), name, len(ambiguous.Candidates))
		for _, r := range ambiguous.Candidates {
			msg.WriteString(candidateStyle.Render(fmt.Sprintf("%s (%s)  %s", r.Name, r.Source, r.Exec)))
			msg.WriteString("\n")
		}
		return newServiceError(err, issue.NameAmbiguousId, msg.String())
	}

	return err
}
