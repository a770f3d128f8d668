// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"path"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// launchers are commands that run something else; sharing one of them as
// the first token says nothing about two records being the same program.
var launchers = map[string]bool{
	"env":     true,
	"sh":      true,
	"bash":    true,
	"flatpak": true,
	"snap":    true,
	"python":  true,
	"python3": true,
	"node":    true,
	"java":    true,
	"wine":    true,
}

// execKey is the comparable form of an exec string.
type execKey struct {
	// command is the tokenized command line joined by single spaces.
	command string
	// binary is the cleaned absolute path of the first token, empty when
	// the first token is relative or a launcher.
	binary string
}

func keyOf(exec string) execKey {
	fields, err := shell.Fields(exec, func(name string) string { return "${" + name + "}" })
	if err != nil || len(fields) == 0 {
		fields = strings.Fields(exec)
	}
	if len(fields) == 0 {
		return execKey{}
	}
	k := execKey{command: strings.Join(fields, " ")}
	if first := fields[0]; strings.HasPrefix(first, "/") && !launchers[path.Base(first)] {
		k.binary = path.Clean(first)
	}
	return k
}

func (k execKey) equivalent(o execKey) bool {
	if k.command != "" && k.command == o.command {
		return true
	}
	return k.binary != "" && k.binary == o.binary
}

// Dedup collapses records describing the same application. Two records
// merge when their case-folded names are equal and their exec strings are
// equivalent, directly or through a chain of equivalent records. Each
// merged group keeps the metadata of its highest-priority member and lists
// the other members' sources as corroborating. The result is sorted and
// does not depend on the order of the input.
func Dedup(records []Record) []Record {
	sorted := slices.Clone(records)
	slices.SortFunc(sorted, compareRecords)

	out := make([]Record, 0, len(sorted))
	for start := 0; start < len(sorted); {
		folded := FoldName(sorted[start].Name)
		end := start + 1
		for end < len(sorted) && FoldName(sorted[end].Name) == folded {
			end++
		}
		out = append(out, mergeGroup(sorted[start:end])...)
		start = end
	}

	slices.SortFunc(out, compareRecords)
	return out
}

// mergeGroup merges records sharing a folded name.
func mergeGroup(group []Record) []Record {
	if len(group) == 1 {
		return []Record{withCorroborating(group[0], nil)}
	}

	keys := make([]execKey, len(group))
	for i, r := range group {
		keys[i] = keyOf(r.Exec)
	}

	parent := make([]int, len(group))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for i := range group {
		for j := i + 1; j < len(group); j++ {
			if keys[i].equivalent(keys[j]) {
				if ri, rj := find(i), find(j); ri != rj {
					parent[max(ri, rj)] = min(ri, rj)
				}
			}
		}
	}

	clusters := make(map[int][]Record)
	var roots []int
	for i, r := range group {
		root := find(i)
		if _, ok := clusters[root]; !ok {
			roots = append(roots, root)
		}
		clusters[root] = append(clusters[root], r)
	}

	out := make([]Record, 0, len(roots))
	for _, root := range roots {
		out = append(out, mergeCluster(clusters[root]))
	}
	return out
}

func mergeCluster(members []Record) Record {
	slices.SortFunc(members, func(a, b Record) int {
		if c := a.Source.Priority() - b.Source.Priority(); c != 0 {
			return c
		}
		if c := b.Richness() - a.Richness(); c != 0 {
			return c
		}
		return compareRecords(a, b)
	})

	winner := members[0]
	var others []Source
	for _, m := range members {
		others = append(others, m.Sources()...)
	}
	return withCorroborating(winner, others)
}

// withCorroborating returns r with its corroborating list set to the
// distinct sources in extra and r's own list, minus r's primary source,
// in priority order.
func withCorroborating(r Record, extra []Source) Record {
	all := append(slices.Clone(r.Corroborating), extra...)
	var out []Source
	for _, s := range all {
		if s != r.Source && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b Source) int { return a.Priority() - b.Priority() })
	r.Corroborating = out
	return r
}
