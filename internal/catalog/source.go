// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// SourceDesktop is an XDG .desktop entry.
	SourceDesktop Source = "desktop"
	// SourceFlatpak is an installed Flatpak application.
	SourceFlatpak Source = "flatpak"
	// SourceSnap is an installed snap.
	SourceSnap Source = "snap"
	// SourceDpkg is a Debian package owning an executable.
	SourceDpkg Source = "dpkg"
	// SourceRpm is an RPM package owning an executable.
	SourceRpm Source = "rpm"
	// SourcePacman is an Arch package owning an executable.
	SourcePacman Source = "pacman"
	// SourceBrew is a Homebrew formula.
	SourceBrew Source = "brew"
	// SourceCargo is a binary installed with cargo install.
	SourceCargo Source = "cargo"
	// SourceNpm is a globally installed npm binary.
	SourceNpm Source = "npm"
	// SourceStandalone is an executable not claimed by any package manager.
	SourceStandalone Source = "standalone"
)

// ErrInvalidSource is returned when a Source value is not recognized.
var ErrInvalidSource = errors.New("invalid source")

type (
	// Source identifies the provider a Record came from.
	Source string

	// InvalidSourceError is returned when a Source value is not recognized.
	// It wraps ErrInvalidSource for errors.Is() compatibility.
	InvalidSourceError struct {
		Value Source
	}
)

// prioritized lists every source from most to least trusted.
var prioritized = []Source{
	SourceDesktop,
	SourceFlatpak,
	SourceSnap,
	SourceDpkg,
	SourceRpm,
	SourcePacman,
	SourceBrew,
	SourceCargo,
	SourceNpm,
	SourceStandalone,
}

// AllSources returns every known source in priority order.
func AllSources() []Source {
	out := make([]Source, len(prioritized))
	copy(out, prioritized)
	return out
}

// ParseSource converts a user-supplied name into a Source. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseSource(s string) (Source, error) {
	src := Source(strings.ToLower(strings.TrimSpace(s)))
	if ok, errs := src.IsValid(); !ok {
		return "", errs[0]
	}
	return src, nil
}

// ParseSources converts a list of names, failing on the first unknown one.
func ParseSources(names []string) ([]Source, error) {
	out := make([]Source, 0, len(names))
	for _, name := range names {
		src, err := ParseSource(name)
		if err != nil {
			return nil, err
		}
		out = append(out, src)
	}
	return out, nil
}

// String returns the source name.
func (s Source) String() string { return string(s) }

// Priority returns the rank of s: lower wins. Unknown sources rank last.
func (s Source) Priority() int {
	for i, p := range prioritized {
		if p == s {
			return i
		}
	}
	return len(prioritized)
}

// IsValid returns whether the Source is one of the defined sources,
// and a list of validation errors if it is not.
func (s Source) IsValid() (bool, []error) {
	if s.Priority() < len(prioritized) {
		return true, nil
	}
	return false, []error{&InvalidSourceError{Value: s}}
}

// Error implements the error interface.
func (e *InvalidSourceError) Error() string {
	names := make([]string, len(prioritized))
	for i, p := range prioritized {
		names[i] = string(p)
	}
	return fmt.Sprintf("invalid source %q (valid: %s)", e.Value, strings.Join(names, ", "))
}

// Unwrap returns ErrInvalidSource so callers can use errors.Is for programmatic detection.
func (e *InvalidSourceError) Unwrap() error { return ErrInvalidSource }
