package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressFor_DailySubjectFilter(t *testing.T) {
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	goal := &StudyGoal{TargetMinutes: 120, Period: PeriodDaily, Subject: "Math"}
	sessions := []LocalSession{
		{Subject: "Math", Duration: 40, CompletedAt: now.Add(-3 * time.Hour), SessionType: SessionWork},
		{Subject: "Math", Duration: 50, CompletedAt: now.Add(-time.Hour), SessionType: SessionWork},
		{Subject: "Physics", Duration: 30, CompletedAt: now.Add(-2 * time.Hour), SessionType: SessionWork},
	}

	got := ProgressFor(goal, sessions, now)
	assert.Equal(t, GoalProgress{CompletedMinutes: 90, Percentage: 75, IsCompleted: false}, got)
}

func TestProgressFor_DailyExcludesYesterday(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC)
	goal := &StudyGoal{TargetMinutes: 60, Period: PeriodDaily}
	sessions := []LocalSession{
		{Duration: 45, CompletedAt: now.Add(-time.Hour)},
		{Duration: 20, CompletedAt: now.Add(-10 * time.Minute)},
	}
	got := ProgressFor(goal, sessions, now)
	assert.Equal(t, 20, got.CompletedMinutes)
	assert.Equal(t, 33, got.Percentage)
}

func TestProgressFor_WeeklyTrailingWindowAndClamp(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	goal := &StudyGoal{TargetMinutes: 100, Period: PeriodWeekly, Subject: " math "}
	sessions := []LocalSession{
		{Subject: "MATH", Duration: 80, CompletedAt: now.Add(-6 * 24 * time.Hour)},
		{Subject: "Math", Duration: 70, CompletedAt: now.Add(-time.Hour)},
		{Subject: "Math", Duration: 500, CompletedAt: now.Add(-8 * 24 * time.Hour)},
	}
	got := ProgressFor(goal, sessions, now)
	assert.Equal(t, 150, got.CompletedMinutes)
	assert.Equal(t, 100, got.Percentage, "percentage clamps at 100")
	assert.True(t, got.IsCompleted)
}

func TestStudyGoal_Validate(t *testing.T) {
	cases := []struct {
		name string
		goal StudyGoal
		ok   bool
	}{
		{"valid", StudyGoal{Title: "Read", TargetMinutes: 30, Period: PeriodDaily}, true},
		{"missing title", StudyGoal{TargetMinutes: 30, Period: PeriodDaily}, false},
		{"zero target", StudyGoal{Title: "Read", Period: PeriodWeekly}, false},
		{"bad period", StudyGoal{Title: "Read", TargetMinutes: 30, Period: "monthly"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.goal.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidGoal)
		})
	}
}
