// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/appgrep/appgrep/internal/catalog"
)

// RpmProvider lists RPM packages that own an executable.
type RpmProvider struct {
	env Env
}

// NewRpmProvider creates an RpmProvider.
func NewRpmProvider(env Env) *RpmProvider {
	return &RpmProvider{env: env}
}

// Source implements Provider.
func (p *RpmProvider) Source() catalog.Source { return catalog.SourceRpm }

// Probe implements Provider.
func (p *RpmProvider) Probe(context.Context) Availability {
	return probeTool(p.env, "rpm")
}

// Discover implements Provider.
func (p *RpmProvider) Discover(ctx context.Context) Outcome {
	out, err := p.env.run(ctx, "rpm", "-qa", "--queryformat", `%{NAME}\t%{SUMMARY}\n`)
	if err != nil {
		return commandOutcome(p.Source(), "rpm", err)
	}

	desktop := desktopFileNames(p.env)
	seen := make(map[string]bool)
	var records []catalog.RawRecord

	for _, line := range lines(out) {
		pkg, summary, ok := strings.Cut(line, "\t")
		if !ok {
			return Failed(p.Source(), fmt.Errorf("malformed rpm row %q", line))
		}
		pkg = strings.TrimSpace(pkg)
		if pkg == "" || pkg == "gpg-pubkey" || ownsDesktopFile(desktop, pkg) {
			continue
		}
		files, err := p.env.run(ctx, "rpm", "-ql", pkg)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Failed(p.Source(), ctxErr)
			}
			continue
		}
		bin := packageBinary(p.env, pkg, lines(files))
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
