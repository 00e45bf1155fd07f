package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/horae/internal/cli/formatter"
	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTimerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timer",
		Aliases: []string{"t"},
		Short:   "Run pomodoro focus and break segments",
	}

	cmd.AddCommand(
		newTimerStartCmd(app),
		newTimerSimpleCmd(app, "pause", "Pause the running segment"),
		newTimerSimpleCmd(app, "resume", "Resume a paused segment"),
		newTimerStopCmd(app),
		newTimerResetCmd(app),
		newTimerStatusCmd(app),
		newTimerWatchCmd(app),
	)

	return cmd
}

func newTimerStartCmd(app *App) *cobra.Command {
	var subject string
	var minutes int
	var isBreak bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a focus session (or a break with --break)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if minutes < 0 {
				return fmt.Errorf("--minutes must not be negative")
			}
			req := service.StartTimerRequest{
				Subject:  subject,
				Type:     domain.SessionWork,
				Duration: time.Duration(minutes) * time.Minute,
			}
			if isBreak {
				req.Type = domain.SessionBreak
			}
			state, err := app.Timer.Start(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s started: %s\n",
				formatter.SessionTypeBadge(state.SessionType),
				formatter.Bold(formatter.FormatCountdown(state.TotalDuration)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "What you are studying")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Segment length (default from config)")
	cmd.Flags().BoolVar(&isBreak, "break", false, "Start a break instead of a focus session")

	return cmd
}

func newTimerSimpleCmd(app *App, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var err error
			switch action {
			case "pause":
				_, err = app.Timer.Pause(ctx)
			case "resume":
				_, err = app.Timer.Resume(ctx)
			}
			if err != nil {
				return err
			}
			st, err := app.Timer.Status(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s remaining\n",
				formatter.PhasePill(st.Phase), formatter.FormatCountdown(st.Remaining))
			return nil
		},
	}
}

func newTimerStopCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "End the segment early, logging focus time of a minute or more",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logged, err := app.Timer.Stop(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if logged == nil {
				fmt.Fprintln(out, "Timer stopped.")
				return nil
			}
			fmt.Fprintf(out, "Timer stopped. Logged %s.\n", formatter.FormatMinutes(logged.Duration))
			return nil
		},
	}
}

func newTimerResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the current segment without logging it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Timer.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Timer reset.")
			return nil
		},
	}
}

func newTimerStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current segment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			completion, err := app.Timer.Check(ctx)
			if err != nil {
				return err
			}
			if completion != nil {
				fmt.Fprint(out, formatter.FormatCompletion(completion))
			}
			st, err := app.Timer.Status(ctx)
			if err != nil {
				return err
			}
			fmt.Fprint(out, formatter.FormatTimerStatus(st))
			return nil
		},
	}
}

func newTimerWatchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Show a live countdown (p pause/resume, s stop, q quit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newWatchModel(cmd.Context(), app)
			_, err := tea.NewProgram(m, tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout())).Run()
			return err
		},
	}
}
