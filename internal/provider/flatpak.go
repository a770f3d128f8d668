// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/appgrep/appgrep/internal/catalog"
)

// FlatpakProvider lists installed Flatpak applications.
type FlatpakProvider struct {
	env Env
}

// NewFlatpakProvider creates a FlatpakProvider.
func NewFlatpakProvider(env Env) *FlatpakProvider {
	return &FlatpakProvider{env: env}
}

// Source implements Provider.
func (p *FlatpakProvider) Source() catalog.Source { return catalog.SourceFlatpak }

// Probe implements Provider.
func (p *FlatpakProvider) Probe(context.Context) Availability {
	return probeTool(p.env, "flatpak")
}

// Discover implements Provider.
func (p *FlatpakProvider) Discover(ctx context.Context) Outcome {
	out, err := p.env.run(ctx, "flatpak", "list", "--app", "--columns=name,application,description")
	if err != nil {
		return commandOutcome(p.Source(), "flatpak", err)
	}

	var records []catalog.RawRecord
	for _, line := range lines(out) {
		cols := strings.Split(line, "\t")
		if len(cols) < 2 {
			return Failed(p.Source(), fmt.Errorf("malformed flatpak row %q", line))
		}
		appID := strings.TrimSpace(cols[1])
		if appID == "" {
			continue
		}
		name := strings.TrimSpace(cols[0])
		if name == "" {
			name = appID
		}
		var desc string
		if len(cols) > 2 {
			desc = cols[2]
		}
		records = append(records, catalog.RawRecord{
			Name:        name,
			Exec:        "flatpak run " + appID,
			Location:    appID,
			Icon:        appID,
			Description: desc,
		})
	}
	return Available(p.Source(), records)
}
