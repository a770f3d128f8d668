// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of markdown help
// pages rendered with glamour.
package issue
