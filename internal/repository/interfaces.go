package repository

import (
	"context"

	"github.com/alexanderramin/horae/internal/domain"
)

// Keys of the per-user blobs. Callers wrap the backing store in Namespaced,
// so the stored key is "<userID>:<key>".
const (
	KeyTimerState    = "timer_state"
	KeyReminders     = "reminders"
	KeyStudyGoals    = "study_goals"
	KeyLocalSessions = "local_sessions"
	KeyAlarmActive   = "alarm_active"
)

// KV is a string key-value store. Get reports found=false for absent keys.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Transactional is implemented by stores that can run a read-modify-write
// atomically. The callback receives a KV scoped to the transaction.
type Transactional interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, kv KV) error) error
}

type TimerStateRepo interface {
	Save(ctx context.Context, s *domain.TimerState) error
	Load(ctx context.Context) (*domain.TimerState, error)
	Clear(ctx context.Context) error
}

type ReminderRepo interface {
	List(ctx context.Context) ([]*domain.Reminder, error)
	GetByID(ctx context.Context, id string) (*domain.Reminder, error)
	Create(ctx context.Context, r *domain.Reminder) error
	// Update applies fn to the stored record and persists the result.
	Update(ctx context.Context, id string, fn func(r *domain.Reminder) error) (*domain.Reminder, error)
	Delete(ctx context.Context, id string) error
	ReplaceAll(ctx context.Context, reminders []*domain.Reminder) error
}

type GoalRepo interface {
	List(ctx context.Context) ([]*domain.StudyGoal, error)
	Create(ctx context.Context, g *domain.StudyGoal) error
	Delete(ctx context.Context, id string) error
}

type SessionLogRepo interface {
	List(ctx context.Context) ([]domain.LocalSession, error)
	Append(ctx context.Context, s domain.LocalSession) error
}

type AlarmMarkerRepo interface {
	IsActive(ctx context.Context) (bool, error)
	SetActive(ctx context.Context, active bool) error
}
