package service

import "errors"

var (
	// ErrTimerActive is returned when starting while a segment is running or paused.
	ErrTimerActive = errors.New("a timer is already active")

	ErrTimerNotRunning = errors.New("timer is not running")
	ErrTimerNotPaused  = errors.New("timer is not paused")

	// ErrNoChannel is reported when a reminder has no outbound channel enabled.
	ErrNoChannel = errors.New("no outbound channel enabled for this reminder")
)
