package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type StudyGoal struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	TargetMinutes int        `json:"targetMinutes"`
	Period        GoalPeriod `json:"period"`
	Subject       string     `json:"subject,omitempty"`
	Color         string     `json:"color"`
	CreatedAt     time.Time  `json:"createdAt"`
}

type GoalProgress struct {
	CompletedMinutes int  `json:"completedMinutes"`
	Percentage       int  `json:"percentage"`
	IsCompleted      bool `json:"isCompleted"`
}

func (g *StudyGoal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidGoal)
	}
	if g.TargetMinutes <= 0 {
		return fmt.Errorf("%w: target minutes must be positive", ErrInvalidGoal)
	}
	if g.Period != PeriodDaily && g.Period != PeriodWeekly {
		return fmt.Errorf("%w: period must be daily or weekly, got %q", ErrInvalidGoal, g.Period)
	}
	return nil
}

// WindowStart returns the earliest completion instant counted for the period:
// local midnight for daily goals, a trailing 7x24h window for weekly ones.
func (g *StudyGoal) WindowStart(now time.Time) time.Time {
	if g.Period == PeriodWeekly {
		return now.Add(-7 * 24 * time.Hour)
	}
	return StartOfDay(now)
}

// ProgressFor sums the sessions in the goal's window (and subject, when set).
func ProgressFor(g *StudyGoal, sessions []LocalSession, now time.Time) GoalProgress {
	from := g.WindowStart(now)
	subject := strings.TrimSpace(g.Subject)

	var completed int
	for _, s := range sessions {
		if s.CompletedAt.Before(from) || s.CompletedAt.After(now) {
			continue
		}
		if subject != "" && !strings.EqualFold(strings.TrimSpace(s.Subject), subject) {
			continue
		}
		completed += s.Duration
	}

	var pct int
	if g.TargetMinutes > 0 {
		pct = int(math.Round(float64(completed) / float64(g.TargetMinutes) * 100))
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return GoalProgress{
		CompletedMinutes: completed,
		Percentage:       pct,
		IsCompleted:      completed >= g.TargetMinutes,
	}
}

// StartOfDay returns midnight of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
