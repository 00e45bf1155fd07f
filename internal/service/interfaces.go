package service

import (
	"context"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/scheduler"
)

type TimerService interface {
	Start(ctx context.Context, req StartTimerRequest) (*domain.TimerState, error)
	Pause(ctx context.Context) (*domain.TimerState, error)
	Resume(ctx context.Context) (*domain.TimerState, error)
	// Stop ends the segment early and returns the partial session it logged, if any.
	Stop(ctx context.Context) (*domain.LocalSession, error)
	Reset(ctx context.Context) error
	Status(ctx context.Context) (TimerStatus, error)
	// Check completes a running segment that has reached zero. It returns
	// nil when there is nothing to complete.
	Check(ctx context.Context) (*Completion, error)
}

type ReminderService interface {
	List(ctx context.Context) ([]*domain.Reminder, error)
	ListUpcoming(ctx context.Context, windowDays int) ([]*domain.Reminder, error)
	ListToday(ctx context.Context) ([]*domain.Reminder, error)
	Get(ctx context.Context, id string) (*domain.Reminder, error)
	Add(ctx context.Context, in ReminderInput) (*domain.Reminder, error)
	// Update returns nil, nil when id is unknown.
	Update(ctx context.Context, id string, patch domain.ReminderPatch) (*domain.Reminder, error)
	Delete(ctx context.Context, id string) (bool, error)
	MarkCompleted(ctx context.Context, id string) (bool, error)
	SendNotification(ctx context.Context, r *domain.Reminder, forceText bool) SendResult
	RearmAll(ctx context.Context) scheduler.ArmReport
	// RearmSince also delivers notify instants in [since, now) that no pass
	// has armed yet, such as reminders added by another process.
	RearmSince(ctx context.Context, since time.Time) scheduler.ArmReport
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte, replace bool) (int, error)
	Close()
}

type GoalService interface {
	List(ctx context.Context) ([]*domain.StudyGoal, error)
	Add(ctx context.Context, in GoalInput) (*domain.StudyGoal, error)
	Delete(ctx context.Context, id string) (bool, error)
	Progress(ctx context.Context, g *domain.StudyGoal) (domain.GoalProgress, error)
	ProgressAll(ctx context.Context) ([]GoalWithProgress, error)
}

type SessionService interface {
	List(ctx context.Context) ([]domain.LocalSession, error)
	Append(ctx context.Context, s domain.LocalSession) (*domain.LocalSession, error)
	Summary(ctx context.Context) (domain.SessionSummary, error)
}

// Alarm is the slice of alarm.Manager the services drive.
type Alarm interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsActive(ctx context.Context) bool
	Notify(ctx context.Context, title, body string)
}
