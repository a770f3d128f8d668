// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the appgrep command tree.
//
// Commands are thin: they resolve flags and configuration into a session,
// ask the App's DiscoveryService for a catalog snapshot, query it through
// internal/query and hand the results to internal/render.
package cmd
