package cli

import (
	"fmt"

	"github.com/alexanderramin/horae/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newAlarmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alarm",
		Short: "Inspect or silence the completion alarm",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Report whether the alarm is ringing",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if app.Alarm.IsActive(cmd.Context()) {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleRed.Render("🔔 ringing"))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("silent"))
				return nil
			},
		},
		&cobra.Command{
			Use:     "stop",
			Aliases: []string{"silence"},
			Short:   "Silence the alarm in every horae process",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := app.Alarm.Stop(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Alarm silenced.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "test",
			Short: "Play the alarm pattern once",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.Alarm.PlayOnce(cmd.Context())
			},
		},
	)

	return cmd
}
