// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"slices"
	"time"

	"github.com/appgrep/appgrep/internal/catalog"
	"github.com/appgrep/appgrep/internal/provider"
)

// DefaultSampleSize is how many names a doctor entry lists.
const DefaultSampleSize = 5

type (
	// DoctorEntry describes one provider's health.
	DoctorEntry struct {
		Source    catalog.Source `json:"source"`
		Available bool           `json:"available"`
		Status    string         `json:"status"`
		Reason    string         `json:"reason,omitempty"`
		Error     string         `json:"error,omitempty"`
		Count     int            `json:"count"`
		Sample    []string       `json:"sample_names,omitempty"`
		Elapsed   time.Duration  `json:"elapsed_ns"`
	}

	// DoctorReport is the diagnostic view of a Snapshot.
	DoctorReport struct {
		Entries []DoctorEntry `json:"providers"`
		Stats   catalog.Stats `json:"stats"`
	}
)

// NewDoctorReport summarizes snap. Entries follow provider registration
// order and each lists up to sampleSize record names, sorted.
func NewDoctorReport(snap *Snapshot, sampleSize int) DoctorReport {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}
	report := DoctorReport{
		Entries: make([]DoctorEntry, 0, len(snap.Providers)),
		Stats:   snap.Catalog.Stats(),
	}
	for _, p := range snap.Providers {
		e := DoctorEntry{
			Source:    p.Source,
			Available: p.Status == provider.StatusAvailable,
			Status:    p.Status.String(),
			Reason:    p.Reason,
			Count:     len(p.Records),
			Elapsed:   p.Elapsed,
		}
		if e.Reason == "" && !p.Probe.Available {
			e.Reason = p.Probe.Reason
		}
		if p.Err != nil {
			e.Error = p.Err.Error()
		}
		names := make([]string, 0, len(p.Records))
		for _, r := range p.Records {
			names = append(names, r.Name)
		}
		slices.Sort(names)
		names = slices.Compact(names)
		if len(names) > sampleSize {
			names = names[:sampleSize]
		}
		e.Sample = names
		report.Entries = append(report.Entries, e)
	}
	return report
}

// Healthy reports whether at least one provider produced records.
func (r DoctorReport) Healthy() bool {
	return slices.ContainsFunc(r.Entries, func(e DoctorEntry) bool { return e.Available })
}
