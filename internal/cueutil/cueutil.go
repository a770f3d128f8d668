// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema and
// turns CUE errors into path-prefixed messages.
package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// MaxFileSize bounds the documents Unify accepts.
const MaxFileSize int64 = 1 << 20

// Unify compiles data, unifies it with the definition def of schema and
// validates the result. Values may stay non-concrete so every field in the
// document is optional.
func Unify(schema, def string, data []byte, filename string) (cue.Value, error) {
	if int64(len(data)) > MaxFileSize {
		return cue.Value{}, fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", filename, len(data), MaxFileSize)
	}

	ctx := cuecontext.New()
	schemaValue := ctx.CompileString(schema)
	if err := schemaValue.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("compile schema: %w", err)
	}
	root := schemaValue.LookupPath(cue.ParsePath(def))
	if err := root.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("schema definition %s: %w", def, err)
	}

	doc := ctx.CompileBytes(data, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}

	unified := root.Unify(doc)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}
	return unified, nil
}

// FormatError rewrites a CUE error as "<file>: <field.path[i]>: <message>",
// one line per underlying error. Non-CUE errors are prefixed with the file.
func FormatError(err error, filename string) error {
	if err == nil {
		return nil
	}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", filename, err)
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		path := formatPath(cueerrors.Path(e))
		msg := e.Error()
		if path != "" {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
			msg = path + ": " + msg
		}
		lines = append(lines, msg)
	}
	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filename, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filename, strings.Join(lines, "\n  "))
}

// formatPath renders ["discovery", "disabled", "0"] as "discovery.disabled[0]".
func formatPath(path []string) string {
	var sb strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isIndex(part):
			sb.WriteString("[" + part + "]")
		case i > 0:
			sb.WriteString("." + part)
		default:
			sb.WriteString(part)
		}
	}
	return sb.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
