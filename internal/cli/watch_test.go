package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/service"
	"github.com/alexanderramin/horae/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatchDriver(t *testing.T, app *App) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newWatchModel(context.Background(), app), teatest.WithSize(80, 24))
	d.Init()
	return d
}

func TestWatch_IdleShowsHelp(t *testing.T) {
	app, _ := testApp(t)
	d := newWatchDriver(t, app)

	d.ViewContains("IDLE", "No segment running.", "start next", "quit")
}

func TestWatch_TogglePauseAndResume(t *testing.T) {
	app, fc := testApp(t)
	ctx := context.Background()
	_, err := app.Timer.Start(ctx, service.StartTimerRequest{Subject: "Latin", Duration: 10 * time.Minute})
	require.NoError(t, err)

	d := newWatchDriver(t, app)
	d.ViewContains("RUNNING", "Latin", "10:00")

	fc.Add(90 * time.Second)
	d.Send(watchTickMsg(fc.Now()))
	d.ViewContains("08:30")

	d.PressKey('p')
	d.ViewContains("PAUSED", "08:30")

	fc.Add(time.Minute)
	d.Send(watchTickMsg(fc.Now()))
	d.ViewContains("08:30")

	d.PressSpace()
	st, err := app.Timer.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseRunning, st.Phase)
}

func TestWatch_CompletionRingsAndStartsNext(t *testing.T) {
	app, fc := testApp(t)
	ctx := context.Background()
	_, err := app.Timer.Start(ctx, service.StartTimerRequest{Subject: "Latin"})
	require.NoError(t, err)

	d := newWatchDriver(t, app)
	fc.Add(25 * time.Minute)
	d.Send(watchTickMsg(fc.Now()))
	d.ViewContains("Pomodoro complete!", "Alarm ringing", "short break")

	d.PressKey('a')
	assert.False(t, app.Alarm.IsActive(ctx))
	assert.NotContains(t, d.View(), "Alarm ringing")

	d.PressKey('n')
	st, err := app.Timer.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseRunning, st.Phase)
	assert.Equal(t, domain.SessionBreak, st.State.SessionType)
	assert.Equal(t, "Latin", st.State.Subject)
	assert.Equal(t, 5*60, st.State.TotalDuration)
	assert.NotContains(t, d.View(), "Pomodoro complete!")
}

func TestWatch_StopLogsAndQuit(t *testing.T) {
	app, fc := testApp(t)
	ctx := context.Background()
	_, err := app.Timer.Start(ctx, service.StartTimerRequest{})
	require.NoError(t, err)

	d := newWatchDriver(t, app)
	fc.Add(3 * time.Minute)
	d.PressKey('s')
	d.ViewContains("IDLE")

	sessions, err := app.Sessions.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 3, sessions[0].Duration)

	d.PressKey('q')
	assert.True(t, d.Quitting)
}

func TestWatch_ErrorsAreShown(t *testing.T) {
	app, _ := testApp(t)
	d := newWatchDriver(t, app)

	d.Send(watchStatusMsg{err: assert.AnError})
	d.ViewContains("Error: " + assert.AnError.Error())
}
