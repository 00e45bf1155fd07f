package domain

import "errors"

var (
	// ErrInvalidReminder wraps every reminder validation failure.
	ErrInvalidReminder = errors.New("invalid reminder")

	// ErrInvalidGoal wraps every study goal validation failure.
	ErrInvalidGoal = errors.New("invalid study goal")

	// ErrInvalidSession wraps LocalSession validation failures.
	ErrInvalidSession = errors.New("invalid study session")
)
