// SPDX-License-Identifier: MPL-2.0

package render

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// FormatTable renders a styled table or card.
	FormatTable Format = "table"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
	// FormatTSV renders tab-separated rows without a header.
	FormatTSV Format = "tsv"
	// FormatNames renders one application name per line.
	FormatNames Format = "names"
	// FormatExec renders one launch command per line.
	FormatExec Format = "exec"
)

// ErrInvalidFormat is returned when a Format value is not recognized.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format selects how query results are written.
	Format string

	// InvalidFormatError is returned when a Format value is not recognized.
	// It wraps ErrInvalidFormat for errors.Is() compatibility.
	InvalidFormatError struct {
		Value Format
	}
)

// AllFormats returns every supported format in help order.
func AllFormats() []Format {
	return []Format{FormatTable, FormatJSON, FormatTSV, FormatNames, FormatExec}
}

// ParseFormat parses s case-insensitively. The empty string is FormatTable.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatTable, nil
	}
	if ok, errs := f.IsValid(); !ok {
		return "", errs[0]
	}
	return f, nil
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// IsValid returns whether the Format is one of the defined formats,
// and a list of validation errors if it is not.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatTable, FormatJSON, FormatTSV, FormatNames, FormatExec:
		return true, nil
	default:
		return false, []error{&InvalidFormatError{Value: f}}
	}
}

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	names := make([]string, 0, len(AllFormats()))
	for _, f := range AllFormats() {
		names = append(names, string(f))
	}
	return fmt.Sprintf("invalid output format %q (valid: %s)", e.Value, strings.Join(names, ", "))
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }
