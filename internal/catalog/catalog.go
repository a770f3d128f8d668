// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"maps"
	"slices"
)

type (
	// Stats summarizes how a Catalog was assembled.
	Stats struct {
		// Primary counts catalog records by their primary source.
		Primary map[Source]int `json:"primary"`
		// Corroborated counts catalog records listing a source as corroborating.
		Corroborated map[Source]int `json:"corroborated"`
		// Discovered is the number of records before deduplication.
		Discovered int `json:"discovered"`
		// Total is the number of records in the catalog.
		Total int `json:"total"`
	}

	// Catalog is the deduplicated, sorted set of Records produced by one
	// discovery run. It is never mutated after Build returns.
	Catalog struct {
		records []Record
		stats   Stats
	}
)

// Build deduplicates records and wraps them in a Catalog.
func Build(records []Record) *Catalog {
	deduped := Dedup(records)
	stats := Stats{
		Primary:      make(map[Source]int),
		Corroborated: make(map[Source]int),
		Discovered:   len(records),
		Total:        len(deduped),
	}
	for _, r := range deduped {
		stats.Primary[r.Source]++
		for _, s := range r.Corroborating {
			stats.Corroborated[s]++
		}
	}
	return &Catalog{records: deduped, stats: stats}
}

// Records returns the catalog records in catalog order. The returned slice
// is a copy; callers must not modify the Categories or Corroborating slices.
func (c *Catalog) Records() []Record {
	return slices.Clone(c.records)
}

// Len returns the number of records.
func (c *Catalog) Len() int { return len(c.records) }

// Stats returns a copy of the assembly statistics.
func (c *Catalog) Stats() Stats {
	s := c.stats
	s.Primary = maps.Clone(c.stats.Primary)
	s.Corroborated = maps.Clone(c.stats.Corroborated)
	return s
}

// Filter returns the records whose primary or corroborating sources
// include any of sources. With no sources it returns every record.
func (c *Catalog) Filter(sources ...Source) []Record {
	return FilterRecords(c.records, sources...)
}

// FilterRecords applies the same source filter as Catalog.Filter to an
// arbitrary slice, preserving its order.
func FilterRecords(records []Record, sources ...Source) []Record {
	if len(sources) == 0 {
		return slices.Clone(records)
	}
	var out []Record
	for _, r := range records {
		if slices.ContainsFunc(sources, r.HasSource) {
			out = append(out, r)
		}
	}
	return out
}
