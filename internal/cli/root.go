package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/horae/internal/service"
	"github.com/jmhodges/clock"
	"github.com/spf13/cobra"
)

// AlarmControl is the alarm surface the CLI drives.
type AlarmControl interface {
	service.Alarm
	PlayOnce(ctx context.Context) error
}

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Timer     service.TimerService
	Reminders service.ReminderService
	Goals     service.GoalService
	Sessions  service.SessionService
	Alarm     AlarmControl

	Clock    clock.Clock
	Location *time.Location
	// UpcomingDays is the default window of `reminder upcoming`.
	UpcomingDays int

	// IsInteractive reports whether forms may prompt on the terminal.
	IsInteractive func() bool
	// Serve runs the daemon and HTTP API until ctx is cancelled.
	Serve func(ctx context.Context) error
}

func (a *App) now() time.Time {
	loc := a.Location
	if loc == nil {
		loc = time.Local
	}
	return a.Clock.Now().In(loc)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "horae" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "horae",
		Short:         "Study timer, reminders and goals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTimerCmd(app),
		newReminderCmd(app),
		newGoalCmd(app),
		newSessionCmd(app),
		newAlarmCmd(app),
		newServeCmd(app),
	)

	return root
}
