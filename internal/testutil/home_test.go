// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"testing"
)

func TestSetHomeDir(t *testing.T) {
	// Not parallel: mutates the process environment.
	envVar := homeEnvVar()
	original, hadOriginal := os.LookupEnv(envVar)

	for _, dir := range []string{t.TempDir(), ""} {
		cleanup := SetHomeDir(t, dir)
		if got := os.Getenv(envVar); got != dir {
			t.Errorf("%s = %q, want %q", envVar, got, dir)
		}
		cleanup()

		got, ok := os.LookupEnv(envVar)
		if ok != hadOriginal || got != original {
			t.Errorf("after cleanup %s = %q (set=%v), want %q (set=%v)", envVar, got, ok, original, hadOriginal)
		}
	}
}
