// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride, when set, is used instead of the platform config directory.
var configDirOverride string

// Reset drops any directory override installed by SetConfigDirOverride.
func Reset() { configDirOverride = "" }

// SetConfigDirOverride points configuration lookups at dir.
func SetConfigDirOverride(dir string) { configDirOverride = dir }
