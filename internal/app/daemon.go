package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TimerCheckInterval is how often the daemon looks for a finished segment.
const TimerCheckInterval = time.Second

// Run re-arms reminders, resumes an alarm left ringing by a previous process
// and then polls the timer and re-arms on the configured interval until ctx
// is done.
func (a *App) Run(ctx context.Context) error {
	a.Log.Info("daemon started",
		zap.Duration("rearm_interval", a.Config.Reminders.RearmInterval),
		zap.String("timezone", a.Location.String()),
	)
	lastPass := a.rearm(ctx, a.Clock.Now())
	a.tick(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.every(ctx, a.Config.Reminders.RearmInterval, func(ctx context.Context) {
			lastPass = a.rearm(ctx, lastPass)
		})
	}()
	go func() {
		defer wg.Done()
		a.every(ctx, TimerCheckInterval, a.tick)
	}()
	wg.Wait()

	a.Log.Info("daemon stopped")
	return nil
}

// rearm runs a scheduling pass that delivers instants reached since the
// previous pass began, and returns when this pass began.
func (a *App) rearm(ctx context.Context, since time.Time) time.Time {
	began := a.Clock.Now()
	a.Reminders.RearmSince(ctx, since)
	return began
}

func (a *App) every(ctx context.Context, d time.Duration, fn func(context.Context)) {
	timer := a.Clock.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			fn(ctx)
			timer.Reset(d)
		}
	}
}

// tick completes a finished segment and then reconciles the alarm with
// its marker, which the CLI may have changed.
func (a *App) tick(ctx context.Context) {
	a.checkTimer(ctx)
	if err := a.Alarm.Sync(ctx); err != nil {
		a.Log.Warn("syncing alarm", zap.Error(err))
	}
}

func (a *App) checkTimer(ctx context.Context) {
	c, err := a.Timer.Check(ctx)
	if err != nil {
		a.Log.Warn("checking timer", zap.Error(err))
		return
	}
	if c == nil {
		return
	}
	a.Log.Info("segment completed",
		zap.String("type", string(c.Session.SessionType)),
		zap.Int("minutes", c.Session.Duration),
		zap.String("next", string(c.Next)),
	)
}
