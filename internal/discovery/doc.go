// SPDX-License-Identifier: MPL-2.0

// Package discovery runs the providers concurrently and turns their
// output into a Catalog.
//
// Each provider runs in its own goroutine under its own deadline. The
// result set always has one entry per provider, whether it succeeded,
// was unavailable, failed, panicked or timed out.
package discovery
