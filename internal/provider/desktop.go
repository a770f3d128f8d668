// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/appgrep/appgrep/internal/catalog"
)

const desktopGroup = "Desktop Entry"

// fieldCodes are the Exec placeholders a launcher substitutes at run time.
const fieldCodes = "fFuUdDnNickvm"

// DesktopProvider reads XDG .desktop entries.
type DesktopProvider struct {
	env Env
}

// NewDesktopProvider creates a DesktopProvider.
func NewDesktopProvider(env Env) *DesktopProvider {
	return &DesktopProvider{env: env}
}

// Source implements Provider.
func (p *DesktopProvider) Source() catalog.Source { return catalog.SourceDesktop }

// Probe implements Provider.
func (p *DesktopProvider) Probe(context.Context) Availability {
	for _, dir := range p.dirs() {
		if p.env.IsDir(dir) {
			return Availability{Available: true}
		}
	}
	return Availability{Reason: "no application directories found"}
}

// Discover implements Provider. A file name seen in an earlier directory
// shadows the same name in later ones.
func (p *DesktopProvider) Discover(ctx context.Context) Outcome {
	seen := make(map[string]bool)
	var records []catalog.RawRecord

	for _, dir := range p.dirs() {
		if err := ctx.Err(); err != nil {
			return Failed(p.Source(), err)
		}
		entries, err := p.env.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".desktop") || seen[name] {
				continue
			}
			seen[name] = true

			loc := path.Join(dir, name)
			data, err := p.env.ReadFile(loc)
			if err != nil {
				slog.Debug("skipping unreadable desktop file", "path", loc, "error", err)
				continue
			}
			if rec, ok := desktopRecord(parseDesktopGroup(data), loc); ok {
				records = append(records, rec)
			}
		}
	}
	return Available(p.Source(), records)
}

// dirs returns the application directories in XDG precedence order.
func (p *DesktopProvider) dirs() []string {
	dataHome := p.env.getenv("XDG_DATA_HOME")
	if dataHome == "" && p.env.home() != "" {
		dataHome = path.Join(p.env.home(), ".local", "share")
	}

	var dirs []string
	add := func(d string) {
		if d == "" || !path.IsAbs(d) {
			return
		}
		d = path.Clean(d)
		if !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	if dataHome != "" {
		add(path.Join(dataHome, "applications"))
	}
	add("/usr/share/applications")
	add("/usr/local/share/applications")
	for _, d := range strings.Split(p.env.getenv("XDG_DATA_DIRS"), ":") {
		if d != "" {
			add(path.Join(d, "applications"))
		}
	}
	return slices.DeleteFunc(dirs, func(d string) bool {
		return d == "/var/lib/flatpak/exports/share/applications"
	})
}

// parseDesktopGroup returns the unlocalized keys of the [Desktop Entry]
// group. Other groups, comments and localized keys are ignored.
func parseDesktopGroup(data []byte) map[string]string {
	keys := make(map[string]string)
	inGroup := false

	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inGroup = line[1:len(line)-1] == desktopGroup
			continue
		}
		if !inGroup {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if strings.Contains(k, "[") {
			continue
		}
		if _, dup := keys[k]; !dup {
			keys[k] = strings.TrimSpace(v)
		}
	}
	return keys
}

// desktopRecord converts a parsed group into a RawRecord. It returns false
// for entries that are not visible applications.
func desktopRecord(keys map[string]string, location string) (catalog.RawRecord, bool) {
	if t, ok := keys["Type"]; ok && t != "Application" {
		return catalog.RawRecord{}, false
	}
	if isTrue(keys["NoDisplay"]) || isTrue(keys["Hidden"]) {
		return catalog.RawRecord{}, false
	}

	desc := keys["Comment"]
	if desc == "" {
		desc = keys["GenericName"]
	}
	return catalog.RawRecord{
		Name:        keys["Name"],
		Exec:        stripFieldCodes(keys["Exec"]),
		Location:    location,
		Icon:        keys["Icon"],
		Description: desc,
		Categories:  strings.Split(keys["Categories"], ";"),
	}, true
}

func isTrue(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// stripFieldCodes removes Exec placeholders such as %u and turns %% into %.
func stripFieldCodes(exec string) string {
	var b strings.Builder
	for i := 0; i < len(exec); i++ {
		c := exec[i]
		if c != '%' || i+1 >= len(exec) {
			b.WriteByte(c)
			continue
		}
		next := exec[i+1]
		switch {
		case next == '%':
			b.WriteByte('%')
			i++
		case strings.IndexByte(fieldCodes, next) >= 0:
			i++
		default:
			b.WriteByte(c)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
