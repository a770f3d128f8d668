// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/appgrep/appgrep/internal/catalog"
)

// brewInfo is the subset of `brew info --json=v2` we read.
type brewInfo struct {
	Formulae []struct {
		Name string `json:"name"`
		Desc string `json:"desc"`
	} `json:"formulae"`
}

// BrewProvider lists installed Homebrew formulae.
type BrewProvider struct {
	env Env
}

// NewBrewProvider creates a BrewProvider.
func NewBrewProvider(env Env) *BrewProvider {
	return &BrewProvider{env: env}
}

// Source implements Provider.
func (p *BrewProvider) Source() catalog.Source { return catalog.SourceBrew }

// Probe implements Provider.
func (p *BrewProvider) Probe(context.Context) Availability {
	return probeTool(p.env, "brew")
}

// Discover implements Provider.
func (p *BrewProvider) Discover(ctx context.Context) Outcome {
	prefixOut, err := p.env.run(ctx, "brew", "--prefix")
	if err != nil {
		return commandOutcome(p.Source(), "brew", err)
	}
	prefix := strings.TrimSpace(string(prefixOut))
	if !path.IsAbs(prefix) {
		return Failed(p.Source(), fmt.Errorf("unexpected brew prefix %q", prefix))
	}

	listOut, err := p.env.run(ctx, "brew", "list", "--formula")
	if err != nil {
		return commandOutcome(p.Source(), "brew", err)
	}

	descs := p.descriptions(ctx)
	var records []catalog.RawRecord
	for _, line := range lines(listOut) {
		for _, formula := range strings.Fields(line) {
			bin := path.Join(prefix, "bin", formula)
			if !p.env.IsExecutable(bin) {
				continue
			}
			records = append(records, catalog.RawRecord{
				Name:        formula,
				Exec:        bin,
				Location:    bin,
				Description: descs[formula],
				Categories:  []string{"Homebrew"},
			})
		}
	}
	return Available(p.Source(), records)
}

// descriptions is best effort: a failing brew info only loses metadata.
func (p *BrewProvider) descriptions(ctx context.Context) map[string]string {
	descs := make(map[string]string)
	out, err := p.env.run(ctx, "brew", "info", "--json=v2", "--installed")
	if err != nil {
		slog.Debug("brew info unavailable", "error", err)
		return descs
	}
	var info brewInfo
	if err := json.Unmarshal(out, &info); err != nil {
		slog.Debug("brew info unreadable", "error", err)
		return descs
	}
	for _, f := range info.Formulae {
		descs[f.Name] = f.Desc
	}
	return descs
}
