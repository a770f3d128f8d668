// SPDX-License-Identifier: MPL-2.0

package query

import (
	"slices"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/appgrep/appgrep/internal/catalog"
	"github.com/appgrep/appgrep/internal/search"
)

const (
	// MaxSuggestions caps the names offered by a NotFoundError.
	MaxSuggestions = 3

	minSuggestDistance = 2
)

// Engine answers queries against one Catalog. The search index is built
// on first use. An Engine is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	weights search.Weights

	once  sync.Once
	index *search.Index
}

// NewEngine returns an Engine over c ranking matches with w.
func NewEngine(c *catalog.Catalog, w search.Weights) *Engine {
	return &Engine{catalog: c, weights: w}
}

// Catalog returns the catalog the engine queries.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

func (e *Engine) idx() *search.Index {
	e.once.Do(func() {
		e.index = search.NewIndex(e.catalog.Records(), e.weights)
	})
	return e.index
}

// List returns the catalog records carrying any of sources, in catalog
// order. With no sources every record is returned.
func (e *Engine) List(sources ...catalog.Source) []catalog.Record {
	return e.catalog.Filter(sources...)
}

// Search returns the records matching query, best first, restricted to
// sources when any are given.
func (e *Engine) Search(query string, sources ...catalog.Source) []search.Match {
	matches := e.idx().Search(query)
	if len(sources) == 0 {
		return matches
	}
	return slices.DeleteFunc(matches, func(m search.Match) bool {
		return !slices.ContainsFunc(sources, m.Record.HasSource)
	})
}

// Has resolves name the way Info does and reports the record it found.
// An ambiguous name counts as absent.
func (e *Engine) Has(name string) (catalog.Record, bool) {
	res := e.idx().Resolve(name)
	return res.Record, res.Found
}

// Info resolves name to a single record. It fails with a *NotFoundError
// or an *AmbiguousError.
func (e *Engine) Info(name string) (catalog.Record, error) {
	res := e.idx().Resolve(name)
	if res.Found {
		return res.Record, nil
	}
	if len(res.Candidates) == 0 {
		return catalog.Record{}, &NotFoundError{Name: name, Suggestions: e.Suggest(name)}
	}
	cands := make([]catalog.Record, len(res.Candidates))
	for i, m := range res.Candidates {
		cands[i] = m.Record
	}
	return catalog.Record{}, &AmbiguousError{Name: name, Candidates: cands}
}

// ResolveExec resolves name like Info and returns the record's launch
// command.
func (e *Engine) ResolveExec(name string) (string, error) {
	r, err := e.Info(name)
	if err != nil {
		return "", err
	}
	return r.Exec, nil
}

// Suggest returns up to MaxSuggestions catalog names within edit distance
// of name, closest first. The allowed distance grows with the length of
// name.
func (e *Engine) Suggest(name string) []string {
	q := catalog.FoldName(strings.TrimSpace(name))
	if q == "" {
		return nil
	}
	limit := max(minSuggestDistance, len([]rune(q))/3)

	type scored struct {
		name string
		dist int
	}
	seen := make(map[string]bool)
	var found []scored
	for _, r := range e.catalog.Records() {
		if seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		if d := levenshtein.ComputeDistance(q, catalog.FoldName(r.Name)); d <= limit {
			found = append(found, scored{name: r.Name, dist: d})
		}
	}
	slices.SortStableFunc(found, func(a, b scored) int {
		if a.dist != b.dist {
			return a.dist - b.dist
		}
		return strings.Compare(a.name, b.name)
	})

	out := make([]string, 0, min(len(found), MaxSuggestions))
	for _, s := range found[:min(len(found), MaxSuggestions)] {
		out = append(out, s.name)
	}
	return out
}
