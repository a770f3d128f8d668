// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// homeEnvVar is the variable os.UserHomeDir reads on this platform.
func homeEnvVar() string {
	if runtime.GOOS == "windows" {
		return "USERPROFILE"
	}
	return "HOME"
}

// SetHomeDir points the user's home directory at dir and returns a
// function restoring the previous value. Typical use:
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()
	return MustSetenv(t, homeEnvVar(), dir)
}
