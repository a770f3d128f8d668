// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"path"
	"slices"
	"strings"

	"github.com/appgrep/appgrep/internal/catalog"
)

// probeTool reports whether name resolves on PATH.
func probeTool(env Env, name string) Availability {
	if _, err := env.lookPath(name); err != nil {
		return Availability{Reason: fmt.Sprintf("%s not found on PATH", name)}
	}
	return Availability{Available: true}
}

// commandOutcome classifies a failed tool invocation.
func commandOutcome(src catalog.Source, tool string, err error) Outcome {
	if errors.Is(err, exec.ErrNotFound) {
		return Unavailable(src, fmt.Sprintf("%s not found on PATH", tool))
	}
	return Failed(src, err)
}

// lines splits tool output into non-empty, right-trimmed lines.
func lines(out []byte) []string {
	var res []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if l := strings.TrimRight(sc.Text(), " \t\r"); strings.TrimSpace(l) != "" {
			res = append(res, l)
		}
	}
	return res
}

// executablesIn lists the executable regular files directly inside dir,
// sorted by name. A missing directory yields nothing.
func executablesIn(env Env, dir string) []string {
	entries, err := env.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		p := path.Join(dir, e.Name())
		if env.IsExecutable(p) {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}

// desktopFileNames returns the basenames of .desktop files in the system
// application directory, used by package providers to skip packages that
// already have a launcher entry.
func desktopFileNames(env Env) map[string]bool {
	names := make(map[string]bool)
	entries, err := env.ReadDir("/usr/share/applications")
	if err != nil {
		return names
	}
	for _, e := range entries {
		if base, ok := strings.CutSuffix(e.Name(), ".desktop"); ok {
			names[strings.ToLower(base)] = true
		}
	}
	return names
}

// ownsDesktopFile reports whether pkg matches one of the desktop names,
// either exactly or as the last component of a reverse-DNS id.
func ownsDesktopFile(desktop map[string]bool, pkg string) bool {
	pkg = strings.ToLower(pkg)
	if desktop[pkg] {
		return true
	}
	for name := range desktop {
		if strings.HasSuffix(name, "."+pkg) {
			return true
		}
	}
	return false
}

// binDirs are the directories whose files count as a package's executables.
var binDirs = []string{"/usr/bin/", "/usr/sbin/", "/bin/", "/sbin/", "/usr/games/", "/usr/local/bin/"}

// isBinPath reports whether p sits directly inside one of binDirs.
func isBinPath(p string) bool {
	for _, dir := range binDirs {
		if rest, ok := strings.CutPrefix(p, dir); ok && rest != "" && !strings.Contains(rest, "/") {
			return true
		}
	}
	return false
}

// packageBinary picks the ELF executable that best represents pkg from
// the paths the package owns: one named after the package wins, otherwise
// the first in path order. Scripts never count.
func packageBinary(env Env, pkg string, owned []string) string {
	var candidates []string
	for _, p := range owned {
		if isBinPath(p) && env.IsExecutable(p) && env.IsELF(p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	slices.Sort(candidates)
	if i := slices.IndexFunc(candidates, func(p string) bool { return path.Base(p) == pkg }); i >= 0 {
		return candidates[i]
	}
	return candidates[0]
}
