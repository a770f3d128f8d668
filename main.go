// SPDX-License-Identifier: MPL-2.0

// Command appgrep finds the applications installed on this machine.
package main

import "github.com/appgrep/appgrep/cmd/appgrep"

func main() {
	cmd.Execute()
}
