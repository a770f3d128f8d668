// SPDX-License-Identifier: MPL-2.0

package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/appgrep/appgrep/internal/catalog"
)

var (
	// ErrNameNotFound is returned when no record matches a requested name.
	ErrNameNotFound = errors.New("application not found")
	// ErrNameAmbiguous is returned when several records match a requested
	// name equally well.
	ErrNameAmbiguous = errors.New("application name is ambiguous")
)

type (
	// NotFoundError reports a name that resolved to nothing, with close
	// catalog names the user may have meant.
	NotFoundError struct {
		Name        string
		Suggestions []string
	}

	// AmbiguousError reports a name that resolved to more than one record.
	AmbiguousError struct {
		Name       string
		Candidates []catalog.Record
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no application matches %q", e.Name)
	}
	return fmt.Sprintf("no application matches %q (did you mean %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

// Unwrap returns ErrNameNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNameNotFound }

// Error implements the error interface.
func (e *AmbiguousError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, r := range e.Candidates {
		names[i] = fmt.Sprintf("%s (%s)", r.Name, r.Source)
	}
	return fmt.Sprintf("%q matches %d applications: %s", e.Name, len(e.Candidates), strings.Join(names, ", "))
}

// Unwrap returns ErrNameAmbiguous for errors.Is() compatibility.
func (e *AmbiguousError) Unwrap() error { return ErrNameAmbiguous }
