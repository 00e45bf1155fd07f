package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func TestTimerState_Phase(t *testing.T) {
	var nilState *TimerState
	assert.Equal(t, PhaseInactive, nilState.Phase())
	assert.Equal(t, PhaseInactive, (&TimerState{}).Phase())
	assert.Equal(t, PhasePaused, (&TimerState{IsActive: true, IsPaused: true}).Phase())
	assert.Equal(t, PhaseRunning, (&TimerState{IsActive: true}).Phase())
}

func TestRemaining_DecreasesAndClampsAtZero(t *testing.T) {
	s := NewTimerState(SessionWork, "Math", 25*time.Minute, testNow)

	prev := Remaining(s, testNow)
	assert.Equal(t, 1500, prev)
	for _, step := range []time.Duration{time.Second, time.Minute, 10 * time.Minute, 14 * time.Minute} {
		now := testNow.Add(step)
		got := Remaining(s, now)
		assert.Less(t, got, prev, "remaining must decrease as the clock advances")
		prev = got
	}

	for _, huge := range []time.Duration{25 * time.Minute, time.Hour, 1000 * time.Hour} {
		assert.Equal(t, 0, Remaining(s, testNow.Add(huge)))
	}
}

func TestRemaining_PausedAndInactiveUseSnapshot(t *testing.T) {
	paused := &TimerState{IsActive: true, IsPaused: true, RemainingAtPause: 300}
	assert.Equal(t, 300, Remaining(paused, testNow.Add(time.Hour)))

	inactive := &TimerState{RemainingAtPause: 42}
	assert.Equal(t, 42, Remaining(inactive, testNow))

	negative := &TimerState{RemainingAtPause: -5}
	assert.Equal(t, 0, Remaining(negative, testNow))
}

func TestRemaining_ClockBeforeStartDoesNotAddTime(t *testing.T) {
	s := NewTimerState(SessionWork, "", time.Minute, testNow)
	assert.Equal(t, 60, Remaining(s, testNow.Add(-time.Hour)))
}

func TestPauseResume_RoundTrip(t *testing.T) {
	total := 25 * time.Minute
	delta := 7*time.Minute + 30*time.Second
	s := NewTimerState(SessionWork, "Physics", total, testNow)

	pausedAt := testNow.Add(delta)
	require.True(t, s.Pause(pausedAt))
	assert.Equal(t, PhasePaused, s.Phase())
	assert.Nil(t, s.StartedAt)
	assert.Equal(t, int((total-delta)/time.Second), s.RemainingAtPause)

	// Time spent paused does not count.
	resumedAt := pausedAt.Add(3 * time.Hour)
	require.True(t, s.Resume(resumedAt))
	assert.Equal(t, PhaseRunning, s.Phase())
	assert.Equal(t, int((total-delta)/time.Second), Remaining(s, resumedAt))

	assert.Equal(t, int((total-delta)/time.Second)-60, Remaining(s, resumedAt.Add(time.Minute)))
}

func TestPauseResume_WrongPhase(t *testing.T) {
	s := NewTimerState(SessionBreak, "", 5*time.Minute, testNow)
	assert.False(t, s.Resume(testNow), "running timer cannot resume")
	require.True(t, s.Pause(testNow))
	assert.False(t, s.Pause(testNow), "paused timer cannot pause again")

	inactive := &TimerState{}
	assert.False(t, inactive.Pause(testNow))
	assert.False(t, inactive.Resume(testNow))
}

func TestFinishedAndProgress(t *testing.T) {
	s := NewTimerState(SessionWork, "", 10*time.Minute, testNow)
	assert.False(t, s.Finished(testNow.Add(9*time.Minute)))
	assert.InDelta(t, 0.5, Progress(s, testNow.Add(5*time.Minute)), 0.001)
	assert.True(t, s.Finished(testNow.Add(10*time.Minute)))
	assert.Equal(t, 1.0, Progress(s, testNow.Add(time.Hour)))
	assert.Equal(t, 600, Elapsed(s, testNow.Add(time.Hour)))
}
