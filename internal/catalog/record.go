// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

type (
	// RawRecord is what a provider reports before normalization. Fields are
	// taken verbatim from the provider's data and may be untrimmed or empty.
	RawRecord struct {
		Name        string
		Exec        string
		Location    string
		Icon        string
		Description string
		Categories  []string
	}

	// Record is the canonical description of one installed application.
	// Name and Exec are never empty once a Record leaves the Normalizer.
	Record struct {
		Name          string   `json:"name"`
		Exec          string   `json:"exec"`
		Source        Source   `json:"source"`
		Corroborating []Source `json:"corroborating,omitempty"`
		Location      string   `json:"location,omitempty"`
		Icon          string   `json:"icon,omitempty"`
		Categories    []string `json:"categories,omitempty"`
		Description   string   `json:"description,omitempty"`
	}
)

// FoldName returns the case-folded form of a name used for
// case-insensitive grouping and matching.
func FoldName(name string) string {
	return cases.Fold().String(name)
}

// Sources returns the primary source followed by the corroborating ones.
func (r Record) Sources() []Source {
	out := make([]Source, 0, 1+len(r.Corroborating))
	out = append(out, r.Source)
	return append(out, r.Corroborating...)
}

// HasSource reports whether src is the primary or a corroborating source.
func (r Record) HasSource(src Source) bool {
	return r.Source == src || slices.Contains(r.Corroborating, src)
}

// Richness counts how many optional metadata fields are populated.
func (r Record) Richness() int {
	n := 0
	if r.Description != "" {
		n++
	}
	if r.Icon != "" {
		n++
	}
	if len(r.Categories) > 0 {
		n++
	}
	if r.Location != "" {
		n++
	}
	return n
}

// compareRecords is the total order used to make every catalog operation
// independent of input order.
func compareRecords(a, b Record) int {
	if c := strings.Compare(FoldName(a.Name), FoldName(b.Name)); c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	if c := a.Source.Priority() - b.Source.Priority(); c != 0 {
		return c
	}
	if c := strings.Compare(a.Exec, b.Exec); c != 0 {
		return c
	}
	if c := strings.Compare(a.Location, b.Location); c != 0 {
		return c
	}
	if c := strings.Compare(a.Description, b.Description); c != 0 {
		return c
	}
	if c := strings.Compare(a.Icon, b.Icon); c != 0 {
		return c
	}
	return slices.Compare(a.Categories, b.Categories)
}
