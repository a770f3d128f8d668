// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/appgrep/appgrep/internal/catalog"
)

const dpkgInfoDir = "/var/lib/dpkg/info"

// DpkgProvider lists Debian packages that own an executable and have no
// desktop entry of their own.
type DpkgProvider struct {
	env Env
}

// NewDpkgProvider creates a DpkgProvider.
func NewDpkgProvider(env Env) *DpkgProvider {
	return &DpkgProvider{env: env}
}

// Source implements Provider.
func (p *DpkgProvider) Source() catalog.Source { return catalog.SourceDpkg }

// Probe implements Provider.
func (p *DpkgProvider) Probe(context.Context) Availability {
	return probeTool(p.env, "dpkg-query")
}

// Discover implements Provider.
func (p *DpkgProvider) Discover(ctx context.Context) Outcome {
	out, err := p.env.run(ctx, "dpkg-query", "-W", "-f=${Package}\t${binary:Summary}\n")
	if err != nil {
		return commandOutcome(p.Source(), "dpkg-query", err)
	}

	lists := p.listFiles()
	desktop := desktopFileNames(p.env)
	seen := make(map[string]bool)
	var records []catalog.RawRecord

	for _, line := range lines(out) {
		if err := ctx.Err(); err != nil {
			return Failed(p.Source(), err)
		}
		pkg, summary, ok := strings.Cut(line, "\t")
		if !ok {
			return Failed(p.Source(), fmt.Errorf("malformed dpkg-query row %q", line))
		}
		pkg = strings.TrimSpace(pkg)
		if pkg == "" || ownsDesktopFile(desktop, pkg) {
			continue
		}
		listPath, ok := lists[pkg]
		if !ok {
			continue
		}
		data, err := p.env.ReadFile(listPath)
		if err != nil {
			continue
		}
		bin := packageBinary(p.env, pkg, lines(data))
		if bin == "" || seen[bin] {
			continue
		}
		seen[bin] = true
		records = append(records, catalog.RawRecord{
			Name:        pkg,
			Exec:        bin,
			Location:    bin,
			Description: summary,
			Categories:  []string{"CLI"},
		})
	}
	return Available(p.Source(), records)
}

// listFiles maps package names to their dpkg file list, accepting both
// "<pkg>.list" and the multi-arch "<pkg>:<arch>.list" forms.
func (p *DpkgProvider) listFiles() map[string]string {
	lists := make(map[string]string)
	entries, err := p.env.ReadDir(dpkgInfoDir)
	if err != nil {
		return lists
	}
	for _, e := range entries {
		base, ok := strings.CutSuffix(e.Name(), ".list")
		if !ok {
			continue
		}
		pkg, _, qualified := strings.Cut(base, ":")
		if _, exists := lists[pkg]; exists && qualified {
			continue
		}
		lists[pkg] = path.Join(dpkgInfoDir, e.Name())
	}
	return lists
}
