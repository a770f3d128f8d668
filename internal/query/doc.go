// SPDX-License-Identifier: MPL-2.0

// Package query implements the list, info, search, has and exec
// resolution operations over a discovered catalog.
//
// Name resolution prefers an exact case-insensitive match. Failing that, a
// fuzzy match is used only when it outranks every other candidate; ties are
// reported as an *AmbiguousError listing the candidates. Names that match
// nothing produce a *NotFoundError carrying edit-distance suggestions.
package query
