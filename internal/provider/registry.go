// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"slices"

	"github.com/appgrep/appgrep/internal/catalog"
)

// Options tunes the default provider set.
type Options struct {
	// StandaloneDirs are scanned in addition to the built-in standalone directories.
	StandaloneDirs []string
}

// Defaults returns one provider per known source, in priority order.
func Defaults(env Env, opts Options) []Provider {
	return []Provider{
		NewDesktopProvider(env),
		NewFlatpakProvider(env),
		NewSnapProvider(env),
		NewDpkgProvider(env),
		NewRpmProvider(env),
		NewPacmanProvider(env),
		NewBrewProvider(env),
		NewCargoProvider(env),
		NewNpmProvider(env),
		NewStandaloneProvider(env, opts.StandaloneDirs...),
	}
}

// Select keeps the providers whose source is in sources, preserving order.
// An empty sources list keeps every provider.
func Select(providers []Provider, sources ...catalog.Source) []Provider {
	if len(sources) == 0 {
		return slices.Clone(providers)
	}
	return slices.DeleteFunc(slices.Clone(providers), func(p Provider) bool {
		return !slices.Contains(sources, p.Source())
	})
}

// Exclude drops the providers whose source is in sources.
func Exclude(providers []Provider, sources ...catalog.Source) []Provider {
	return slices.DeleteFunc(slices.Clone(providers), func(p Provider) bool {
		return slices.Contains(sources, p.Source())
	})
}
