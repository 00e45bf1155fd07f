package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/scheduler"
	"github.com/alexanderramin/horae/internal/service"
	"github.com/alexanderramin/horae/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestFormatTimerStatus(t *testing.T) {
	idle := stripANSI(FormatTimerStatus(service.TimerStatus{Phase: domain.PhaseInactive}))
	assert.Contains(t, idle, "IDLE")
	assert.Contains(t, idle, "No timer running")

	state := domain.NewTimerState(domain.SessionWork, "Math", 25*time.Minute, testutil.Monday)
	state.PomodoroCount = 2
	out := stripANSI(FormatTimerStatus(service.TimerStatus{
		State:     state,
		Phase:     domain.PhaseRunning,
		Remaining: 600,
		Progress:  0.6,
	}))
	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "Focus")
	assert.Contains(t, out, "Math")
	assert.Contains(t, out, "10:00")
	assert.Contains(t, out, "of 25m")
	assert.Contains(t, out, "60%")
	assert.Contains(t, out, "2 pomodoros, 0 breaks")
}

func TestFormatCompletion(t *testing.T) {
	assert.Empty(t, FormatCompletion(nil))

	out := stripANSI(FormatCompletion(&service.Completion{
		Session:      testutil.NewTestSession(25, testutil.WithSessionSubject("Physics")),
		Next:         domain.SessionBreak,
		NextDuration: 15 * time.Minute,
		LongBreak:    true,
	}))
	assert.Contains(t, out, "Pomodoro complete!")
	assert.Contains(t, out, "Logged 25m of Physics")
	assert.Contains(t, out, "Next up: long break (15m)")

	out = stripANSI(FormatCompletion(&service.Completion{
		Session:      testutil.NewTestSession(5, testutil.AsBreak()),
		Next:         domain.SessionWork,
		NextDuration: 25 * time.Minute,
	}))
	assert.Contains(t, out, "Break over.")
	assert.Contains(t, out, "Next up: focus session (25m)")
}

func TestFormatReminderList(t *testing.T) {
	now := testutil.Monday
	exam := testutil.NewTestReminder("Linear algebra exam",
		testutil.WithReminderType(domain.ReminderExam),
		testutil.WithWhatsApp("+491701234567"),
	)
	done := testutil.NewTestReminder("Hand in sheet", testutil.WithCompleted())

	out := stripANSI(FormatReminderList("Upcoming", []*domain.Reminder{exam, done}, now, time.UTC))
	assert.Contains(t, out, "UPCOMING")
	assert.Contains(t, out, "Linear algebra exam")
	assert.Contains(t, out, "Tomorrow")
	assert.Contains(t, out, "whatsapp")
	assert.Contains(t, out, "✔ Hand in sheet")
	assert.Contains(t, out, "local")

	assert.Contains(t, stripANSI(FormatReminderList("Today", nil, now, time.UTC)), "No reminders.")
}

func TestFormatReminderDetail(t *testing.T) {
	r := testutil.NewTestReminder("Seminar",
		testutil.WithReminderType(domain.ReminderClass),
		testutil.WithTelegram("12345"),
		testutil.WithNotifyBefore(10),
	)
	r.Location = "Room 101"

	out := stripANSI(FormatReminderDetail(r))
	assert.Contains(t, out, "Seminar")
	assert.Contains(t, out, "Class")
	assert.Contains(t, out, "Room 101")
	assert.Contains(t, out, "10 min before")
	assert.Contains(t, out, "telegram")
	assert.NotContains(t, out, "Repeats")
}

func TestFormatSendResultAndArmReport(t *testing.T) {
	assert.Contains(t, stripANSI(FormatSendResult(service.SendResult{Success: true, ID: "SM1"})), "Sent (SM1)")
	assert.Contains(t, stripANSI(FormatSendResult(service.SendResult{Error: "whatsapp: rejected"})), "Send failed: whatsapp: rejected")

	out := stripANSI(FormatArmReport(scheduler.ArmReport{Armed: 2, Deferred: 1, Lapsed: 3}))
	assert.Equal(t, "2 armed, 1 deferred, 3 lapsed, 0 skipped\n", out)
}

func TestFormatGoalProgress(t *testing.T) {
	assert.Contains(t, stripANSI(FormatGoalProgress(nil)), "No goals yet")

	g := testutil.NewTestGoal("Read papers", 60, testutil.WithGoalSubject("Biology"))
	out := stripANSI(FormatGoalProgress([]service.GoalWithProgress{
		{Goal: g, Progress: domain.GoalProgress{CompletedMinutes: 30, Percentage: 50}},
		{Goal: testutil.NewTestGoal("Drill", 20), Progress: domain.GoalProgress{CompletedMinutes: 25, Percentage: 100, IsCompleted: true}},
	}))
	assert.Contains(t, out, "Read papers · Biology")
	assert.Contains(t, out, "30m / 1h")
	assert.Contains(t, out, " 50%")
	assert.Contains(t, out, "✔ 25m / 20m")
}

func TestFormatSessionListAndSummary(t *testing.T) {
	now := testutil.Monday.Add(2 * time.Hour)
	sessions := []domain.LocalSession{
		testutil.NewTestSession(25, testutil.WithSessionSubject("Math")),
		testutil.NewTestSession(5, testutil.AsBreak(), testutil.WithCompletedAt(now.Add(-30*time.Minute))),
	}
	out := stripANSI(FormatSessionList(sessions, now))
	assert.Contains(t, out, "Math")
	assert.Contains(t, out, "2h ago")
	assert.Contains(t, out, "30m ago")
	assert.Contains(t, out, "Break")
	assert.Less(t, strings.Index(out, "30m ago"), strings.Index(out, "2h ago"))

	sum := stripANSI(FormatSummary(domain.Summarize(sessions, now)))
	assert.Contains(t, sum, "25m")
	assert.Contains(t, sum, "(1 pomodoros)")
	assert.Contains(t, sum, "BY SUBJECT")
	assert.Contains(t, sum, "Math")
}

