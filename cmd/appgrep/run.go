// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appgrep/appgrep/internal/issue"
)

// newRunCommand creates the `appgrep run` command.
func newRunCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run <name>",
		Short: "Launch an application in the background",
		Long: `Launch an application in the background.

The application's launch command is split into words with shell quoting
rules and started detached from the terminal; appgrep does not wait for
it to exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := sessionFromContext(ctx)

			eng, err := app.engine(ctx, s, false)
			if err != nil {
				return err
			}
			rec, err := eng.Info(args[0])
			if err != nil {
				return resolutionError(args[0], err)
			}

			fmt.Fprintln(app.stderr, SubtitleStyle.Render("Launching "+rec.Name+": ")+CmdStyle.Render(rec.Exec))
			if err := app.Launcher.Launch(ctx, rec.Exec); err != nil {
				launchErr := issue.NewErrorContext().
					WithOperation("launch application").
					WithResource(rec.Name).
					WithSuggestion("Run it directly: " + rec.Exec).
					Wrap(err).
					BuildError()
				return newServiceError(launchErr, issue.LaunchFailedId, "")
			}
			return nil
		},
	}
}
