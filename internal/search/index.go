// SPDX-License-Identifier: MPL-2.0

package search

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/appgrep/appgrep/internal/catalog"
)

type (
	// Match is a record that matched a query.
	Match struct {
		Record catalog.Record
		Tier   Tier
		Score  int
	}

	// Index answers name queries over a fixed set of records. It is
	// read-only after construction and safe for concurrent use.
	Index struct {
		records []catalog.Record
		folded  []string
		weights Weights
	}

	// Resolution is the outcome of resolving a name to one record. When
	// Found is false, Candidates holds the tied best matches and is empty
	// when nothing matched.
	Resolution struct {
		Record     catalog.Record
		Found      bool
		Candidates []Match
	}
)

// NewIndex indexes records under w. Invalid weights fall back to
// DefaultWeights.
func NewIndex(records []catalog.Record, w Weights) *Index {
	if ok, _ := w.IsValid(); !ok {
		w = DefaultWeights()
	}
	folded := make([]string, len(records))
	for i, r := range records {
		folded[i] = catalog.FoldName(r.Name)
	}
	return &Index{records: records, folded: folded, weights: w}
}

// MatchTier classifies how query matches name, case-insensitively.
func MatchTier(query, name string) Tier {
	return tierFolded(catalog.FoldName(query), catalog.FoldName(name))
}

func tierFolded(q, name string) Tier {
	switch {
	case q == "":
		return TierNone
	case name == q:
		return TierExact
	case strings.HasPrefix(name, q):
		return TierPrefix
	case strings.Contains(name, q):
		return TierSubstring
	case isSubsequence(q, name):
		return TierSubsequence
	default:
		return TierNone
	}
}

func isSubsequence(q, s string) bool {
	for _, r := range s {
		if q == "" {
			return true
		}
		first, size := utf8.DecodeRuneInString(q)
		if r == first {
			q = q[size:]
		}
	}
	return q == ""
}

// Search returns every record matching query, best first. Ties on score
// go to the shorter name, then to case-insensitive and case-sensitive
// name order.
func (ix *Index) Search(query string) []Match {
	q := catalog.FoldName(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var matches []Match
	for i, r := range ix.records {
		if t := tierFolded(q, ix.folded[i]); t != TierNone {
			matches = append(matches, Match{Record: r, Tier: t, Score: ix.weights.Score(t)})
		}
	}
	slices.SortStableFunc(matches, compareMatches)
	return matches
}

func compareMatches(a, b Match) int {
	if a.Score != b.Score {
		return b.Score - a.Score
	}
	if la, lb := utf8.RuneCountInString(a.Record.Name), utf8.RuneCountInString(b.Record.Name); la != lb {
		return la - lb
	}
	if c := strings.Compare(catalog.FoldName(a.Record.Name), catalog.FoldName(b.Record.Name)); c != 0 {
		return c
	}
	if c := strings.Compare(a.Record.Name, b.Record.Name); c != 0 {
		return c
	}
	if c := a.Record.Source.Priority() - b.Record.Source.Priority(); c != 0 {
		return c
	}
	return strings.Compare(a.Record.Exec, b.Record.Exec)
}

// Exact returns the records whose name equals name case-insensitively.
func (ix *Index) Exact(name string) []catalog.Record {
	q := catalog.FoldName(strings.TrimSpace(name))
	if q == "" {
		return nil
	}
	var out []catalog.Record
	for i, r := range ix.records {
		if ix.folded[i] == q {
			out = append(out, r)
		}
	}
	return out
}

// Resolve picks the single record a name refers to. An exact
// case-insensitive match always wins; when several records share the name
// the highest-priority source is chosen and all of them are returned as
// Candidates. Without an exact match the best fuzzy match wins only when
// its score strictly beats the runner-up.
func (ix *Index) Resolve(name string) Resolution {
	if exact := ix.Exact(name); len(exact) > 0 {
		cands := make([]Match, len(exact))
		for i, r := range exact {
			cands[i] = Match{Record: r, Tier: TierExact, Score: ix.weights.Exact}
		}
		slices.SortStableFunc(cands, func(a, b Match) int {
			if c := a.Record.Source.Priority() - b.Record.Source.Priority(); c != 0 {
				return c
			}
			return compareMatches(a, b)
		})
		return Resolution{Record: cands[0].Record, Found: true, Candidates: cands}
	}

	matches := ix.Search(name)
	switch {
	case len(matches) == 0:
		return Resolution{}
	case len(matches) == 1 || matches[0].Score > matches[1].Score:
		return Resolution{Record: matches[0].Record, Found: true}
	}
	top := matches[0].Score
	end := 1
	for end < len(matches) && matches[end].Score == top {
		end++
	}
	return Resolution{Candidates: matches[:end]}
}
