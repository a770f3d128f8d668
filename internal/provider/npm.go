// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"path"
	"strings"

	"github.com/appgrep/appgrep/internal/catalog"
)

// NpmProvider lists globally installed npm executables.
type NpmProvider struct {
	env Env
}

// NewNpmProvider creates an NpmProvider.
func NewNpmProvider(env Env) *NpmProvider {
	return &NpmProvider{env: env}
}

// Source implements Provider.
func (p *NpmProvider) Source() catalog.Source { return catalog.SourceNpm }

func (p *NpmProvider) fallbackDir() string {
	if p.env.home() == "" {
		return ""
	}
	return path.Join(p.env.home(), ".npm-global", "bin")
}

// Probe implements Provider.
func (p *NpmProvider) Probe(context.Context) Availability {
	if probeTool(p.env, "npm").Available {
		return Availability{Available: true}
	}
	if d := p.fallbackDir(); d != "" && p.env.IsDir(d) {
		return Availability{Available: true}
	}
	return Availability{Reason: "npm not found on PATH and no global bin directory"}
}

// Discover implements Provider.
func (p *NpmProvider) Discover(ctx context.Context) Outcome {
	binDir := p.globalBin(ctx)
	if binDir == "" {
		return Unavailable(p.Source(), "npm global bin directory not found")
	}
	var records []catalog.RawRecord
	for _, bin := range executablesIn(p.env, binDir) {
		records = append(records, catalog.RawRecord{
			Name:       path.Base(bin),
			Exec:       bin,
			Location:   bin,
			Categories: []string{"Development"},
		})
	}
	return Available(p.Source(), records)
}

// globalBin asks npm for its global prefix and falls back to the
// conventional user-level directory.
func (p *NpmProvider) globalBin(ctx context.Context) string {
	if out, err := p.env.run(ctx, "npm", "prefix", "-g"); err == nil {
		if prefix := strings.TrimSpace(string(out)); path.IsAbs(prefix) {
			if d := path.Join(prefix, "bin"); p.env.IsDir(d) {
				return d
			}
		}
	}
	if d := p.fallbackDir(); d != "" && p.env.IsDir(d) {
		return d
	}
	return ""
}
