package cli

import (
	"fmt"

	"github.com/alexanderramin/horae/internal/cli/formatter"
	"github.com/alexanderramin/horae/internal/domain"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"s", "sessions"},
		Short:   "Inspect the study session log",
	}

	cmd.AddCommand(
		newSessionLogCmd(app),
		newSessionListCmd(app),
		newSessionSummaryCmd(app),
	)

	return cmd
}

func newSessionLogCmd(app *App) *cobra.Command {
	var subject string
	var minutes int
	var isBreak bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log a session done away from the timer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := domain.LocalSession{Subject: subject, Duration: minutes, SessionType: domain.SessionWork}
			if isBreak {
				s.SessionType = domain.SessionBreak
			}
			logged, err := app.Sessions.Append(cmd.Context(), s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s\n",
				formatter.FormatMinutes(logged.Duration), formatter.SessionTypeBadge(logged.SessionType))
			return nil
		},
	}

	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Session duration in minutes")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "What you studied")
	cmd.Flags().BoolVar(&isBreak, "break", false, "Log a break instead of focus time")
	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func newSessionListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List logged sessions, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := app.Sessions.List(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(sessions) > limit {
				sessions = sessions[len(sessions)-limit:]
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionList(sessions, app.now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most this many sessions (0 for all)")
	return cmd
}

func newSessionSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Totals for today and the last 7 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := app.Sessions.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSummary(sum))
			return nil
		},
	}
}
