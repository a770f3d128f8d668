// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
)

// ErrRecordInvalid is the sentinel wrapped by InvalidRecordError.
var ErrRecordInvalid = errors.New("invalid record")

type (
	// InvalidRecordError reports a provider record that cannot become a Record.
	InvalidRecordError struct {
		Source Source
		Name   string
		Reason string
	}

	// Normalizer converts RawRecords into Records. A bare command name in
	// Exec is resolved against Roots when IsExecutable finds it there.
	Normalizer struct {
		// Roots are directories searched, in order, for bare commands.
		Roots []string
		// IsExecutable reports whether an absolute path names an executable.
		// A nil IsExecutable disables resolution.
		IsExecutable func(path string) bool
	}
)

// Error implements the error interface.
func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("%s record %q: %s", e.Source, e.Name, e.Reason)
}

// Unwrap returns ErrRecordInvalid for errors.Is() compatibility.
func (e *InvalidRecordError) Unwrap() error { return ErrRecordInvalid }

// Normalize produces a Record tagged with src. Records with an empty name
// or exec after trimming are rejected with an InvalidRecordError.
func (n Normalizer) Normalize(src Source, raw RawRecord) (Record, error) {
	if ok, errs := src.IsValid(); !ok {
		return Record{}, errs[0]
	}

	name := collapseSpace(raw.Name)
	if name == "" {
		return Record{}, &InvalidRecordError{Source: src, Name: raw.Name, Reason: "empty name"}
	}
	exec := strings.TrimSpace(raw.Exec)
	if exec == "" {
		return Record{}, &InvalidRecordError{Source: src, Name: name, Reason: "empty exec"}
	}

	return Record{
		Name:        name,
		Exec:        n.resolveExec(exec),
		Source:      src,
		Location:    cleanLocation(raw.Location),
		Icon:        strings.TrimSpace(raw.Icon),
		Description: collapseSpace(raw.Description),
		Categories:  cleanCategories(raw.Categories),
	}, nil
}

// NormalizeAll normalizes every raw record, dropping the invalid ones.
func (n Normalizer) NormalizeAll(src Source, raws []RawRecord) []Record {
	out := make([]Record, 0, len(raws))
	for _, raw := range raws {
		rec, err := n.Normalize(src, raw)
		if err != nil {
			slog.Debug("dropping record", "source", src, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (n Normalizer) resolveExec(exec string) string {
	if n.IsExecutable == nil {
		return exec
	}
	cmd, rest, _ := strings.Cut(exec, " ")
	if cmd == "" || strings.ContainsAny(cmd, "/\"'\\$=") {
		return exec
	}
	for _, root := range n.Roots {
		candidate := path.Join(root, cmd)
		if n.IsExecutable(candidate) {
			if rest == "" {
				return candidate
			}
			return candidate + " " + rest
		}
	}
	return exec
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cleanLocation(loc string) string {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return ""
	}
	if strings.HasPrefix(loc, "/") {
		return path.Clean(loc)
	}
	return loc
}

func cleanCategories(cats []string) []string {
	var out []string
	seen := make(map[string]bool, len(cats))
	for _, c := range cats {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
