// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/appgrep/appgrep/internal/discovery"
)

// newDoctorCommand creates the `appgrep doctor` command.
func newDoctorCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Show what each application source found",
		Long: `Show what each application source found.

Every source is listed in priority order with its status, the number of
records it produced, how long it took and a sample of names. Sources that
are missing their backing tool are reported as unavailable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s := sessionFromContext(ctx)

			// The report already shows every failure.
			snap, err := app.snapshot(ctx, s, true)
			if err != nil {
				return err
			}
			r, err := app.renderer(app.stdout, s)
			if err != nil {
				return err
			}
			return r.Doctor(discovery.NewDoctorReport(snap, s.cfg.Doctor.SampleSize))
		},
	}
}
