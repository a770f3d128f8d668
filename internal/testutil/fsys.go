// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io/fs"
	"strings"
	"testing/fstest"
)

// elfHeader is enough of an ELF file for magic-number checks.
const elfHeader = "\x7fELF\x02\x01\x01"

// HostFS builds an in-memory filesystem addressed with absolute paths,
// matching how providers see the host root.
type HostFS struct {
	m fstest.MapFS
}

// NewHostFS creates an empty HostFS.
func NewHostFS() *HostFS {
	return &HostFS{m: fstest.MapFS{}}
}

func key(p string) string {
	return strings.TrimPrefix(p, "/")
}

// File adds a regular, non-executable file.
func (h *HostFS) File(p, data string) *HostFS {
	h.m[key(p)] = &fstest.MapFile{Data: []byte(data), Mode: 0o644}
	return h
}

// Exec adds an executable script.
func (h *HostFS) Exec(p string) *HostFS {
	h.m[key(p)] = &fstest.MapFile{Data: []byte("#!/bin/sh\n"), Mode: 0o755}
	return h
}

// ELF adds an executable that starts with the ELF magic number.
func (h *HostFS) ELF(p string) *HostFS {
	h.m[key(p)] = &fstest.MapFile{Data: []byte(elfHeader), Mode: 0o755}
	return h
}

// Dir adds an empty directory.
func (h *HostFS) Dir(p string) *HostFS {
	h.m[key(p)] = &fstest.MapFile{Mode: fs.ModeDir | 0o755}
	return h
}

// Symlink adds a symbolic link to target.
func (h *HostFS) Symlink(p, target string) *HostFS {
	h.m[key(p)] = &fstest.MapFile{Data: []byte(target), Mode: fs.ModeSymlink | 0o777}
	return h
}

// FS returns the filesystem.
func (h *HostFS) FS() fstest.MapFS {
	return h.m
}
