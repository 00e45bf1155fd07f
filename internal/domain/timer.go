package domain

import "time"

// TimerState is the persisted snapshot of a work or break countdown.
// Remaining time is derived from wall-clock deltas, never decremented.
type TimerState struct {
	IsActive         bool        `json:"isActive"`
	IsPaused         bool        `json:"isPaused"`
	StartedAt        *time.Time  `json:"startedAt"`
	RemainingAtPause int         `json:"remainingAtPause"`
	TotalDuration    int         `json:"totalDuration"`
	SessionType      SessionType `json:"sessionType"`
	Subject          string      `json:"subject"`
	PomodoroCount    int         `json:"pomodoroCount"`
	Breaks           int         `json:"breaks"`
	SessionStartTime *time.Time  `json:"sessionStartTime"`
}

// NewTimerState returns a running segment of the given length starting at now.
func NewTimerState(sessionType SessionType, subject string, total time.Duration, now time.Time) *TimerState {
	seconds := int(total / time.Second)
	started := now
	sessionStart := now
	return &TimerState{
		IsActive:         true,
		StartedAt:        &started,
		RemainingAtPause: seconds,
		TotalDuration:    seconds,
		SessionType:      sessionType,
		Subject:          subject,
		SessionStartTime: &sessionStart,
	}
}

func (s *TimerState) Phase() TimerPhase {
	switch {
	case s == nil || !s.IsActive:
		return PhaseInactive
	case s.IsPaused:
		return PhasePaused
	default:
		return PhaseRunning
	}
}

// Remaining returns the seconds left in the segment at now, clamped to zero.
// A running state with no start instant is treated as paused.
func Remaining(s *TimerState, now time.Time) int {
	if s == nil {
		return 0
	}
	if s.Phase() != PhaseRunning || s.StartedAt == nil {
		return clampSeconds(s.RemainingAtPause)
	}
	elapsed := int(now.Sub(*s.StartedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	return clampSeconds(s.RemainingAtPause - elapsed)
}

// Elapsed returns the seconds already counted down in the segment.
func Elapsed(s *TimerState, now time.Time) int {
	if s == nil {
		return 0
	}
	return clampSeconds(s.TotalDuration - Remaining(s, now))
}

// Progress returns the completed fraction of the segment in [0, 1].
func Progress(s *TimerState, now time.Time) float64 {
	if s == nil || s.TotalDuration <= 0 {
		return 0
	}
	p := float64(Elapsed(s, now)) / float64(s.TotalDuration)
	if p > 1 {
		return 1
	}
	return p
}

// Pause snapshots the remaining time and drops the run anchor.
// Returns false when the timer was not running.
func (s *TimerState) Pause(now time.Time) bool {
	if s.Phase() != PhaseRunning {
		return false
	}
	s.RemainingAtPause = Remaining(s, now)
	s.StartedAt = nil
	s.IsPaused = true
	return true
}

// Resume re-anchors the countdown at now. Returns false unless paused.
func (s *TimerState) Resume(now time.Time) bool {
	if s.Phase() != PhasePaused {
		return false
	}
	started := now
	s.StartedAt = &started
	s.IsPaused = false
	return true
}

// Finished reports whether a running segment has counted down to zero.
func (s *TimerState) Finished(now time.Time) bool {
	return s.Phase() == PhaseRunning && Remaining(s, now) == 0
}

func clampSeconds(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
