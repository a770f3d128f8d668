// SPDX-License-Identifier: MPL-2.0

// Package render writes catalog query results as styled tables, JSON, TSV
// or bare name and exec lists.
package render
