package testutil

import (
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/google/uuid"
)

// Reference instant used across tests: Monday 2025-03-10 09:00 UTC.
var Monday = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// Reminder options
type ReminderOption func(*domain.Reminder)

func WithDue(t time.Time) ReminderOption {
	return func(r *domain.Reminder) {
		r.Date = t.Format(domain.ReminderDateLayout)
		r.Time = t.Format(domain.ReminderTimeLayout)
	}
}

func WithNotifyBefore(min int) ReminderOption {
	return func(r *domain.Reminder) {
		r.NotifyBefore = min
	}
}

func WithWhatsApp(number string) ReminderOption {
	return func(r *domain.Reminder) {
		r.WhatsAppEnabled = true
		r.WhatsAppNumber = number
	}
}

func WithTelegram(chatID string) ReminderOption {
	return func(r *domain.Reminder) {
		r.TelegramEnabled = true
		r.TelegramChatID = chatID
	}
}

func WithReminderType(rt domain.ReminderType) ReminderOption {
	return func(r *domain.Reminder) {
		r.Type = rt
	}
}

func WithSubject(s string) ReminderOption {
	return func(r *domain.Reminder) {
		r.Subject = s
	}
}

func WithCompleted() ReminderOption {
	return func(r *domain.Reminder) {
		r.Completed = true
	}
}

// NewTestReminder returns a valid study reminder due one day after Monday.
func NewTestReminder(title string, opts ...ReminderOption) *domain.Reminder {
	due := Monday.Add(24 * time.Hour)
	r := &domain.Reminder{
		ID:        uuid.New().String(),
		Title:     title,
		Date:      due.Format(domain.ReminderDateLayout),
		Time:      due.Format(domain.ReminderTimeLayout),
		Type:      domain.ReminderStudy,
		Recurring: domain.RecurNone,
		CreatedAt: Monday,
		UpdatedAt: Monday,
		Version:   1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Goal options
type GoalOption func(*domain.StudyGoal)

func WithGoalSubject(s string) GoalOption {
	return func(g *domain.StudyGoal) {
		g.Subject = s
	}
}

func WithPeriod(p domain.GoalPeriod) GoalOption {
	return func(g *domain.StudyGoal) {
		g.Period = p
	}
}

func NewTestGoal(title string, target int, opts ...GoalOption) *domain.StudyGoal {
	g := &domain.StudyGoal{
		ID:            uuid.New().String(),
		Title:         title,
		TargetMinutes: target,
		Period:        domain.PeriodDaily,
		Color:         "#458588",
		CreatedAt:     Monday,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Session options
type SessionOption func(*domain.LocalSession)

func WithSessionSubject(s string) SessionOption {
	return func(ls *domain.LocalSession) {
		ls.Subject = s
	}
}

func WithCompletedAt(t time.Time) SessionOption {
	return func(ls *domain.LocalSession) {
		ls.CompletedAt = t
	}
}

func AsBreak() SessionOption {
	return func(ls *domain.LocalSession) {
		ls.SessionType = domain.SessionBreak
	}
}

func NewTestSession(minutes int, opts ...SessionOption) domain.LocalSession {
	s := domain.LocalSession{
		ID:          uuid.New().String(),
		Duration:    minutes,
		CompletedAt: Monday,
		SessionType: domain.SessionWork,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
