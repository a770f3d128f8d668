// SPDX-License-Identifier: MPL-2.0

// Package catalog holds the application data model: the canonical Record,
// the Source enumeration with its fixed priority order, the Normalizer that
// turns provider output into Records, and the Deduplicator that collapses
// duplicate Records into an immutable Catalog.
package catalog
