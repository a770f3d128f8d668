// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"time"

	"github.com/appgrep/appgrep/internal/catalog"
	"github.com/appgrep/appgrep/internal/provider"
)

type (
	// Discovery is the full pipeline: run providers, normalize their
	// output and build a deduplicated Catalog.
	Discovery struct {
		providers    []provider.Provider
		normalizer   catalog.Normalizer
		orchestrator *Orchestrator
	}

	// ProviderReport is what one provider contributed to a Snapshot.
	ProviderReport struct {
		Source  catalog.Source
		Probe   provider.Availability
		Status  provider.Status
		Reason  string
		Err     error
		Records []catalog.Record
		Elapsed time.Duration
	}

	// Snapshot is the result of one discovery run.
	Snapshot struct {
		Catalog   *catalog.Catalog
		Providers []ProviderReport
	}
)

// New creates a Discovery over providers.
func New(providers []provider.Provider, normalizer catalog.Normalizer, opts ...Option) *Discovery {
	return &Discovery{
		providers:    providers,
		normalizer:   normalizer,
		orchestrator: NewOrchestrator(opts...),
	}
}

// Run discovers every provider and assembles the catalog. A failing
// provider contributes no records but never prevents the others from
// contributing theirs.
func (d *Discovery) Run(ctx context.Context) *Snapshot {
	results := d.orchestrator.Run(ctx, d.providers)

	snap := &Snapshot{Providers: make([]ProviderReport, len(results))}
	var all []catalog.Record
	for i, res := range results {
		o := res.Outcome
		rep := ProviderReport{
			Source:  o.Source,
			Probe:   res.Probe,
			Status:  o.Status,
			Reason:  o.Reason,
			Err:     o.Err,
			Elapsed: res.Elapsed,
		}
		if o.Status == provider.StatusAvailable {
			rep.Records = d.normalizer.NormalizeAll(o.Source, o.Records)
			all = append(all, rep.Records...)
		}
		snap.Providers[i] = rep
	}
	snap.Catalog = catalog.Build(all)
	return snap
}

// HostNormalizer resolves bare commands against the directories on env's PATH.
func HostNormalizer(env provider.Env) catalog.Normalizer {
	return catalog.Normalizer{
		Roots:        env.PathDirs(),
		IsExecutable: env.IsExecutable,
	}
}
