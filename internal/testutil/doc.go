// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers: environment and file management
// that fail the test on error (MustSetenv, MustWriteFile), an in-memory
// host filesystem builder, and FakeRunner, a scripted stand-in for the
// package manager tools providers shell out to.
package testutil
