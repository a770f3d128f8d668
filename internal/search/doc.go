// SPDX-License-Identifier: MPL-2.0

// Package search ranks catalog records against a name query.
package search
