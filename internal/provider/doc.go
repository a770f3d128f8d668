// SPDX-License-Identifier: MPL-2.0

// Package provider implements the per-packaging-system discovery
// providers. Every provider reads the host through an Env so it can be
// exercised against an in-memory filesystem and scripted tool output.
package provider
