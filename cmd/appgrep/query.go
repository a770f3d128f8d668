// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newListCommand creates the `appgrep list` command.
func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List installed applications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s := sessionFromContext(ctx)

			eng, err := app.engine(ctx, s, false)
			if err != nil {
				return err
			}
			r, err := app.renderer(app.stdout, s)
			if err != nil {
				return err
			}
			if err := r.Records(eng.List(s.filter...)); err != nil {
				return err
			}
			if s.stats {
				return app.writeStats(s, eng.Catalog().Stats())
			}
			return nil
		},
	}
}

// newSearchCommand creates the `appgrep search` command.
func newSearchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search applications by name",
		Long: `Fuzzy search applications by name.

Results are ranked exact > prefix > substring > subsequence, so "ff"
finds both Firefox and FileFinder.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := sessionFromContext(ctx)

			eng, err := app.engine(ctx, s, false)
			if err != nil {
				return err
			}
			r, err := app.renderer(app.stdout, s)
			if err != nil {
				return err
			}
			if err := r.Matches(eng.Search(args[0], s.filter...)); err != nil {
				return err
			}
			if s.stats {
				return app.writeStats(s, eng.Catalog().Stats())
			}
			return nil
		},
	}
}

// newInfoCommand creates the `appgrep info` command.
func newInfoCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info <name>",
		Short: "Show everything known about one application",
		Args:  cobra.ExactArgs(1),
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
			r, err := app.renderer(app.stdout, s)
			if err != nil {
				return err
			}
			return r.Record(rec)
		},
	}
}

// newHasCommand creates the `appgrep has` command. It prints nothing
// unless --format json is given and exits 1 when the name is not found.
func newHasCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "has <name>",
		Short: "Exit 0 if an application is installed, 1 otherwise",
		Long: `Exit 0 if the name resolves to an installed application, 1 otherwise.

Names resolve like info: an exact match (ignoring case) wins, otherwise a
single best fuzzy match is accepted. An ambiguous name counts as not
installed. Nothing is printed unless --format json is given.

` + SubtitleStyle.Render("Example:") + `
  if appgrep has firefox; then echo "browser ready"; fi`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := sessionFromContext(ctx)

			eng, err := app.engine(ctx, s, true)
			if err != nil {
				return err
			}
			rec, found := eng.Has(args[0])
			r, err := app.renderer(app.stdout, s)
			if err != nil {
				return err
			}
			if err := r.Has(args[0], rec, found); err != nil {
				return err
			}
			if !found {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
}

// newPathCommand creates the `appgrep path` command.
func newPathCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path <name>",
		Short: "Print the launch command of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := sessionFromContext(ctx)

			eng, err := app.engine(ctx, s, false)
			if err != nil {
				return err
			}
			execLine, err := eng.ResolveExec(args[0])
			if err != nil {
				return resolutionError(args[0], err)
			}
			fmt.Fprintln(app.stdout, execLine)
			return nil
		},
	}
}
