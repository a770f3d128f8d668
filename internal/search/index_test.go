// SPDX-License-Identifier: MPL-2.0

package search

import (
	"errors"
	"testing"

	"github.com/appgrep/appgrep/internal/catalog"
)

func rec(name string, src catalog.Source) catalog.Record {
	return catalog.Record{Name: name, Exec: "/usr/bin/" + name, Source: src}
}

func TestMatchTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query, name string
		want        Tier
	}{
		{"firefox", "Firefox", TierExact},
		{"FIRE", "Firefox", TierPrefix},
		{"fox", "Firefox", TierSubstring},
		{"ff", "Firefox", TierSubsequence},
		{"ff", "FileFinder", TierSubsequence},
		{"xf", "Firefox", TierNone},
		{"", "Firefox", TierNone},
		{"straße", "STRASSE", TierExact},
		{"é", "Café", TierSubstring},
	}

	for _, tt := range tests {
		t.Run(tt.query+"/"+tt.name, func(t *testing.T) {
			t.Parallel()

			if got := MatchTier(tt.query, tt.name); got != tt.want {
				t.Errorf("MatchTier(%q, %q) = %s, want %s", tt.query, tt.name, got, tt.want)
			}
		})
	}
}

func TestWeights_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		w    Weights
		want bool
	}{
		{"defaults", DefaultWeights(), true},
		{"custom", Weights{Exact: 10, Prefix: 5, Substring: 3, Subsequence: 1}, true},
		{"equal tiers", Weights{Exact: 10, Prefix: 10, Substring: 3, Subsequence: 1}, false},
		{"zero subsequence", Weights{Exact: 10, Prefix: 5, Substring: 3, Subsequence: 0}, false},
		{"inverted", Weights{Exact: 1, Prefix: 2, Substring: 3, Subsequence: 4}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, errs := tt.w.IsValid()
			if ok != tt.want {
				t.Fatalf("IsValid() = %v, want %v (errs %v)", ok, tt.want, errs)
			}
			for _, err := range errs {
				if !errors.Is(err, ErrInvalidWeights) {
					t.Errorf("error %v does not wrap ErrInvalidWeights", err)
				}
			}
		})
	}
}

func TestIndex_SearchFuzzy(t *testing.T) {
	t.Parallel()

	ix := NewIndex([]catalog.Record{
		rec("FileFinder", catalog.SourceDesktop),
		rec("Firefox", catalog.SourceDesktop),
		rec("Thunderbird", catalog.SourceDesktop),
	}, DefaultWeights())

	got := ix.Search("ff")
	if len(got) != 2 {
		t.Fatalf("Search(ff) = %d matches, want 2", len(got))
	}
	if got[0].Record.Name != "Firefox" || got[1].Record.Name != "FileFinder" {
		t.Errorf("Search(ff) order = [%s %s], want shorter name first", got[0].Record.Name, got[1].Record.Name)
	}
	if got[0].Score != got[1].Score || got[0].Tier != TierSubsequence {
		t.Errorf("Search(ff) scores = %d/%d tier %s, want equal subsequence scores", got[0].Score, got[1].Score, got[0].Tier)
	}
}

func TestIndex_SearchRanking(t *testing.T) {
	t.Parallel()

	ix := NewIndex([]catalog.Record{
		rec("Code OSS", catalog.SourceDesktop),
		rec("vscode", catalog.SourceSnap),
		rec("code", catalog.SourceDpkg),
		rec("Codium", catalog.SourceFlatpak),
		rec("cOde", catalog.SourceNpm),
		rec("clouddev", catalog.SourceCargo),
	}, DefaultWeights())

	var order []string
	for _, m := range ix.Search("code") {
		order = append(order, m.Record.Name)
	}
	want := []string{"cOde", "code", "Code OSS", "vscode", "clouddev"}
	if len(order) != len(want) {
		t.Fatalf("Search(code) = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Search(code)[%d] = %q, want %q (full %v)", i, order[i], want[i], order)
		}
	}
}

func TestIndex_SearchDeterministic(t *testing.T) {
	t.Parallel()

	a := []catalog.Record{rec("alpha", catalog.SourceDesktop), rec("Alpha", catalog.SourceSnap), rec("alps", catalog.SourceDpkg)}
	b := []catalog.Record{a[2], a[1], a[0]}

	ma, mb := NewIndex(a, DefaultWeights()).Search("al"), NewIndex(b, DefaultWeights()).Search("al")
	for i := range ma {
		if ma[i].Record.Name != mb[i].Record.Name || ma[i].Record.Source != mb[i].Record.Source {
			t.Errorf("result %d differs by input order: %v vs %v", i, ma[i].Record, mb[i].Record)
		}
	}
}

func TestIndex_Resolve(t *testing.T) {
	t.Parallel()

	ix := NewIndex([]catalog.Record{
		rec("Firefox", catalog.SourceSnap),
		rec("firefox", catalog.SourceDesktop),
		rec("Firewall", catalog.SourceDpkg),
		rec("Thunderbird", catalog.SourceDesktop),
		rec("ripgrep", catalog.SourceCargo),
	}, DefaultWeights())

	tests := []struct {
		name       string
		query      string
		wantFound  bool
		wantName   string
		wantSource catalog.Source
		wantCands  int
	}{
		{"exact prefers source priority", "FIREFOX", true, "firefox", catalog.SourceDesktop, 2},
		{"tied prefix is ambiguous", "fire", false, "", "", 3},
		{"unique fuzzy wins", "thun", true, "Thunderbird", catalog.SourceDesktop, 0},
		{"subsequence unique", "rgp", true, "ripgrep", catalog.SourceCargo, 0},
		{"nothing", "zzz", false, "", "", 0},
		{"blank", "  ", false, "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := ix.Resolve(tt.query)
			if res.Found != tt.wantFound {
				t.Fatalf("Resolve(%q).Found = %v, want %v", tt.query, res.Found, tt.wantFound)
			}
			if tt.wantFound && (res.Record.Name != tt.wantName || res.Record.Source != tt.wantSource) {
				t.Errorf("Resolve(%q) = %s/%s, want %s/%s", tt.query, res.Record.Name, res.Record.Source, tt.wantName, tt.wantSource)
			}
			if len(res.Candidates) != tt.wantCands {
				t.Errorf("Resolve(%q) candidates = %d, want %d", tt.query, len(res.Candidates), tt.wantCands)
			}
		})
	}
}

func TestIndex_ResolveStrictlyBetter(t *testing.T) {
	t.Parallel()

	ix := NewIndex([]catalog.Record{
		rec("Firefox", catalog.SourceDesktop),
		rec("Firewall", catalog.SourceDpkg),
	}, DefaultWeights())

	res := ix.Resolve("fire")
	if res.Found {
		t.Fatalf("Resolve(fire) picked %s, want ambiguity", res.Record.Name)
	}
	if len(res.Candidates) != 2 {
		t.Errorf("Resolve(fire) candidates = %d, want 2", len(res.Candidates))
	}

	// A prefix match strictly beats a substring match.
	ix = NewIndex([]catalog.Record{
		rec("Firefox", catalog.SourceDesktop),
		rec("Campfire", catalog.SourceDpkg),
	}, DefaultWeights())
	if res := ix.Resolve("fire"); !res.Found || res.Record.Name != "Firefox" {
		t.Errorf("Resolve(fire) = %+v, want Firefox", res)
	}
}

func TestNewIndex_InvalidWeightsFallBack(t *testing.T) {
	t.Parallel()

	ix := NewIndex([]catalog.Record{rec("a", catalog.SourceDesktop)}, Weights{})
	if m := ix.Search("a"); len(m) != 1 || m[0].Score != DefaultWeights().Exact {
		t.Errorf("Search() = %+v, want default exact score", m)
	}
}
