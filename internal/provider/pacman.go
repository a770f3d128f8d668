// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"strings"

	"github.com/appgrep/appgrep/internal/catalog"
)

// pacmanPackage is one block of pacman -Qi output.
type pacmanPackage struct {
	name        string
	description string
}

// PacmanProvider lists Arch packages that own an executable.
type PacmanProvider struct {
	env Env
}

// NewPacmanProvider creates a PacmanProvider.
func NewPacmanProvider(env Env) *PacmanProvider {
	return &PacmanProvider{env: env}
}

// Source implements Provider.
func (p *PacmanProvider) Source() catalog.Source { return catalog.SourcePacman }

// Probe implements Provider.
func (p *PacmanProvider) Probe(context.Context) Availability {
	return probeTool(p.env, "pacman")
}

// Discover implements Provider.
func (p *PacmanProvider) Discover(ctx context.Context) Outcome {
	out, err := p.env.run(ctx, "pacman", "-Qi")
	if err != nil {
		return commandOutcome(p.Source(), "pacman", err)
	}

	desktop := desktopFileNames(p.env)
	seen := make(map[string]bool)
	var records []catalog.RawRecord

	for _, pkg := range parsePacmanInfo(string(out)) {
		if ownsDesktopFile(desktop, pkg.name) {
			continue
		}
		bin, err := p.binary(ctx, pkg.name)
		if err != nil {
			return Failed(p.Source(), err)
		}
		if bin == "" || seen[bin] {
			continue
		}
		seen[bin] = true
		records = append(records, catalog.RawRecord{
			Name:        pkg.name,
			Exec:        bin,
			Location:    bin,
			Description: pkg.description,
			Categories:  []string{"CLI"},
		})
	}
	return Available(p.Source(), records)
}

// binary prefers an ELF /usr/bin/<pkg> and otherwise asks pacman for the
// file list. Only a cancelled context is reported as an error.
func (p *PacmanProvider) binary(ctx context.Context, pkg string) (string, error) {
	if direct := "/usr/bin/" + pkg; p.env.IsExecutable(direct) && p.env.IsELF(direct) {
		return direct, nil
	}
	out, err := p.env.run(ctx, "pacman", "-Ql", pkg)
	if err != nil {
		return "", ctx.Err()
	}
	var owned []string
	for _, l := range lines(out) {
		if _, file, ok := strings.Cut(l, " "); ok {
			owned = append(owned, strings.TrimSpace(file))
		}
	}
	return packageBinary(p.env, pkg, owned), nil
}

// parsePacmanInfo splits pacman -Qi output into packages. Blocks are
// separated by blank lines and hold "Key : Value" rows; continuation
// rows for wrapped values start with whitespace.
func parsePacmanInfo(out string) []pacmanPackage {
	var pkgs []pacmanPackage
	var cur pacmanPackage
	flush := func() {
		if cur.name != "" {
			pkgs = append(pkgs, cur)
		}
		cur = pacmanPackage{}
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Name":
			cur.name = strings.TrimSpace(value)
		case "Description":
			cur.description = strings.TrimSpace(value)
		}
	}
	flush()
	return pkgs
}
