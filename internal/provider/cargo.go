// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/appgrep/appgrep/internal/catalog"
)

// cratesManifest is the subset of $CARGO_HOME/.crates.toml we read. Keys of
// V1 look like "ripgrep 14.1.0 (registry+https://...)"; values list the
// binaries the crate installed.
type cratesManifest struct {
	V1 map[string][]string `toml:"v1"`
}

// CargoProvider lists binaries installed with cargo install.
type CargoProvider struct {
	env Env
}

// NewCargoProvider creates a CargoProvider.
func NewCargoProvider(env Env) *CargoProvider {
	return &CargoProvider{env: env}
}

// Source implements Provider.
func (p *CargoProvider) Source() catalog.Source { return catalog.SourceCargo }

func (p *CargoProvider) cargoHome() string {
	if h := p.env.getenv("CARGO_HOME"); h != "" {
		return path.Clean(h)
	}
	if p.env.home() == "" {
		return ""
	}
	return path.Join(p.env.home(), ".cargo")
}

// Probe implements Provider.
func (p *CargoProvider) Probe(context.Context) Availability {
	home := p.cargoHome()
	if home == "" || !p.env.IsDir(path.Join(home, "bin")) {
		return Availability{Reason: "cargo bin directory not found"}
	}
	return Availability{Available: true}
}

// Discover implements Provider.
func (p *CargoProvider) Discover(ctx context.Context) Outcome {
	home := p.cargoHome()
	binDir := path.Join(home, "bin")
	if home == "" || !p.env.IsDir(binDir) {
		return Unavailable(p.Source(), "cargo bin directory not found")
	}

	crates := p.crateNames(path.Join(home, ".crates.toml"))
	var records []catalog.RawRecord
	for _, bin := range executablesIn(p.env, binDir) {
		if err := ctx.Err(); err != nil {
			return Failed(p.Source(), err)
		}
		name := path.Base(bin)
		if crate, ok := crates[name]; ok {
			name = crate
		}
		records = append(records, catalog.RawRecord{
			Name:       name,
			Exec:       bin,
			Location:   bin,
			Categories: []string{"Development"},
		})
	}
	return Available(p.Source(), records)
}

// crateNames maps installed binary names to the crate that provided them.
// A missing or unreadable manifest yields an empty map.
func (p *CargoProvider) crateNames(manifestPath string) map[string]string {
	names := make(map[string]string)
	data, err := p.env.ReadFile(manifestPath)
	if err != nil {
		return names
	}
	var m cratesManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		slog.Debug("ignoring unreadable crates manifest", "path", manifestPath, "error", fmt.Errorf("parse: %w", err))
		return names
	}
	for key, bins := range m.V1 {
		crate, _, _ := strings.Cut(key, " ")
		for _, b := range bins {
			names[b] = crate
		}
	}
	return names
}
