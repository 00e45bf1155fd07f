package cli

import (
	"fmt"

	"github.com/alexanderramin/horae/internal/cli/formatter"
	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/service"
	"github.com/spf13/cobra"
)

func newGoalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"g", "goals"},
		Short:   "Track daily and weekly study targets",
	}

	cmd.AddCommand(
		newGoalAddCmd(app),
		newGoalListCmd(app),
		newGoalRemoveCmd(app),
	)

	return cmd
}

func newGoalAddCmd(app *App) *cobra.Command {
	var in service.GoalInput
	var weekly bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a study goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Period = domain.PeriodDaily
			if weekly {
				in.Period = domain.PeriodWeekly
			}
			g, err := app.Goals.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s goal %s: %s\n",
				g.Period, formatter.Bold(g.Title), formatter.FormatMinutes(g.TargetMinutes))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Title, "title", "", "Goal title")
	cmd.Flags().IntVarP(&in.TargetMinutes, "minutes", "m", 0, "Target minutes per period")
	cmd.Flags().StringVar(&in.Subject, "subject", "", "Only count sessions of this subject")
	cmd.Flags().StringVar(&in.Color, "color", "", "Display color (hex)")
	cmd.Flags().BoolVar(&weekly, "weekly", false, "Count the trailing 7 days instead of today")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func newGoalListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "progress"},
		Short:   "Show goals with progress for the current period",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := app.Goals.ProgressAll(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGoalProgress(goals))
			return nil
		},
	}
}

func newGoalRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a goal",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveGoalID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if _, err := app.Goals.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed goal %s\n", formatter.TruncID(id))
			return nil
		},
	}
}
