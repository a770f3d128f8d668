// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/appgrep/appgrep/internal/catalog"
)

// snapSystemNotes marks snaps that are runtime plumbing, not applications.
var snapSystemNotes = []string{"base", "core", "snapd"}

// SnapProvider lists installed snaps.
type SnapProvider struct {
	env Env
}

// NewSnapProvider creates a SnapProvider.
func NewSnapProvider(env Env) *SnapProvider {
	return &SnapProvider{env: env}
}

// Source implements Provider.
func (p *SnapProvider) Source() catalog.Source { return catalog.SourceSnap }

// Probe implements Provider.
func (p *SnapProvider) Probe(context.Context) Availability {
	return probeTool(p.env, "snap")
}

// Discover implements Provider. The output of snap list is a header line
// followed by whitespace-aligned columns: Name Version Rev Tracking
// Publisher Notes.
func (p *SnapProvider) Discover(ctx context.Context) Outcome {
	out, err := p.env.run(ctx, "snap", "list")
	if err != nil {
		return commandOutcome(p.Source(), "snap", err)
	}

	rows := lines(out)
	if len(rows) == 0 {
		return Available(p.Source(), nil)
	}
	if header := strings.Fields(rows[0]); len(header) == 0 || header[0] != "Name" {
		return Failed(p.Source(), fmt.Errorf("unexpected snap list header %q", rows[0]))
	}

	var records []catalog.RawRecord
	for _, row := range rows[1:] {
		cols := strings.Fields(row)
		if len(cols) < 3 {
			return Failed(p.Source(), fmt.Errorf("malformed snap row %q", row))
		}
		name := cols[0]
		var notes []string
		if len(cols) >= 6 {
			notes = strings.Split(cols[len(cols)-1], ",")
		}
		if slices.Contains(notes, "disabled") || slices.ContainsFunc(notes, func(n string) bool {
			return slices.Contains(snapSystemNotes, n)
		}) {
			continue
		}
		records = append(records, p.enrich(catalog.RawRecord{
			Name: name,
			Exec: "snap run " + name,
		}, name))
	}
	return Available(p.Source(), records)
}

// enrich fills metadata from the first desktop file the snap ships.
func (p *SnapProvider) enrich(rec catalog.RawRecord, name string) catalog.RawRecord {
	guiDir := path.Join("/snap", name, "current", "meta", "gui")
	entries, err := p.env.ReadDir(guiDir)
	if err != nil {
		return rec
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".desktop") {
			continue
		}
		loc := path.Join(guiDir, e.Name())
		data, err := p.env.ReadFile(loc)
		if err != nil {
			continue
		}
		keys := parseDesktopGroup(data)
		if v := keys["Name"]; v != "" {
			rec.Name = v
		}
		rec.Icon = keys["Icon"]
		rec.Description = keys["Comment"]
		rec.Categories = strings.Split(keys["Categories"], ";")
		rec.Location = loc
		return rec
	}
	return rec
}
