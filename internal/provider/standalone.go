// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/appgrep/appgrep/internal/catalog"
)

// archSuffixes are stripped from executable names, longest forms first.
var archSuffixes = []string{
	"-linux-X64",
	"-linux-x86_64",
	"-linux_x86_64",
	"_linux.x86_64",
	"_linux-x86_64",
	"-linux-amd64",
	"-linux-arm64",
	"-x86_64",
	"-amd64",
	"-arm64",
	".x86_64",
	"_x86_64",
}

// StandaloneProvider finds executables dropped into user and /opt
// directories outside any package manager.
type StandaloneProvider struct {
	env   Env
	extra []string
}

// NewStandaloneProvider creates a StandaloneProvider that also scans the
// given extra directories.
func NewStandaloneProvider(env Env, extra ...string) *StandaloneProvider {
	return &StandaloneProvider{env: env, extra: extra}
}

// Source implements Provider.
func (p *StandaloneProvider) Source() catalog.Source { return catalog.SourceStandalone }

// scanDir is a directory and how many levels of subdirectories to enter.
type scanDir struct {
	path  string
	depth int
}

func (p *StandaloneProvider) dirs() []scanDir {
	var dirs []scanDir
	add := func(d string, depth int) {
		if d == "" || !path.IsAbs(d) {
			return
		}
		d = path.Clean(d)
		if !slices.ContainsFunc(dirs, func(s scanDir) bool { return s.path == d }) {
			dirs = append(dirs, scanDir{path: d, depth: depth})
		}
	}
	if home := p.env.home(); home != "" {
		add(path.Join(home, "Applications"), 0)
		add(path.Join(home, ".local", "bin"), 0)
		add(path.Join(home, "bin"), 0)
	}
	add("/opt", 1)
	for _, d := range p.extra {
		add(d, 0)
	}
	return dirs
}

// Probe implements Provider.
func (p *StandaloneProvider) Probe(context.Context) Availability {
	for _, d := range p.dirs() {
		if p.env.IsDir(d.path) {
			return Availability{Available: true}
		}
	}
	return Availability{Reason: "no standalone application directories found"}
}

// Discover implements Provider.
func (p *StandaloneProvider) Discover(ctx context.Context) Outcome {
	var records []catalog.RawRecord
	for _, d := range p.dirs() {
		if err := ctx.Err(); err != nil {
			return Failed(p.Source(), err)
		}
		records = append(records, p.scan(d.path, d.depth)...)
	}
	return Available(p.Source(), records)
}

func (p *StandaloneProvider) scan(dir string, depth int) []catalog.RawRecord {
	entries, err := p.env.ReadDir(dir)
	if err != nil {
		return nil
	}
	var records []catalog.RawRecord
	for _, e := range entries {
		full := path.Join(dir, e.Name())
		if p.env.IsDir(full) {
			if depth > 0 {
				records = append(records, p.scan(full, depth-1)...)
			}
			continue
		}
		if !p.env.IsExecutable(full) || p.linksIntoSystem(full) {
			continue
		}
		name := StandaloneName(e.Name())
		if name == "" {
			continue
		}
		records = append(records, catalog.RawRecord{
			Name:     name,
			Exec:     full,
			Location: full,
		})
	}
	return records
}

// linksIntoSystem reports whether p is a symlink into /usr/bin, which the
// package providers already cover.
func (p *StandaloneProvider) linksIntoSystem(full string) bool {
	target, err := p.env.ReadLink(full)
	if err != nil {
		return false
	}
	return strings.HasPrefix(target, "/usr/bin/")
}

// StandaloneName derives a display name from an executable's file name by
// dropping the AppImage extension, architecture tags and version suffixes:
// "MyApp-1.2.3-x86_64.AppImage" becomes "MyApp".
func StandaloneName(filename string) string {
	name := filename
	for _, ext := range []string{".AppImage", ".appimage"} {
		if trimmed, ok := strings.CutSuffix(name, ext); ok {
			name = trimmed
			break
		}
	}
	for _, suffix := range archSuffixes {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok {
			name = trimmed
			break
		}
	}
	name = stripVersion(name)
	return strings.TrimRight(name, "-_.")
}

// stripVersion cuts at the leftmost '-' or '_' that starts a version-like
// segment, so "Godot_v4.6-stable" becomes "Godot".
func stripVersion(name string) string {
	for i := 0; i < len(name); i++ {
		if (name[i] == '-' || name[i] == '_') && looksLikeVersion(name[i+1:]) {
			return name[:i]
		}
	}
	return name
}

func looksLikeVersion(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
