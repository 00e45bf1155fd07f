package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/service"
)

const timerProgressBarWidth = 24

// FormatTimerStatus renders the current segment as a small dashboard.
func FormatTimerStatus(st service.TimerStatus) string {
	if st.Phase == domain.PhaseInactive || st.State == nil {
		return RenderBox("Timer", PhasePill(st.Phase)+"\n\n"+Dim("No timer running. Start one with `horae timer start`."))
	}

	var b strings.Builder
	b.WriteString(PhasePill(st.Phase) + "  " + SessionTypeBadge(st.State.SessionType))
	if subject := strings.TrimSpace(st.State.Subject); subject != "" {
		b.WriteString("  " + Bold(subject))
	}
	b.WriteString("\n\n")
	b.WriteString(StyleHeader.Render(FormatCountdown(st.Remaining)))
	b.WriteString(Dim(fmt.Sprintf(" of %s", FormatMinutes(st.State.TotalDuration/60))) + "\n")
	b.WriteString(RenderProgress(st.Progress, timerProgressBarWidth) + "\n\n")
	b.WriteString(Dim(fmt.Sprintf("Today: %d pomodoros, %d breaks", st.State.PomodoroCount, st.State.Breaks)))
	return RenderBox("Timer", b.String())
}

// FormatCompletion announces a finished segment and what comes next.
func FormatCompletion(c *service.Completion) string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	if c.Session.SessionType == domain.SessionWork {
		b.WriteString(StyleGreen.Render("✔ Pomodoro complete!"))
		b.WriteString(Dim(fmt.Sprintf(" Logged %s", FormatMinutes(c.Session.Duration))))
		if s := strings.TrimSpace(c.Session.Subject); s != "" {
			b.WriteString(Dim(" of " + s))
		}
	} else {
		b.WriteString(StyleBlue.Render("✔ Break over."))
	}
	b.WriteString("\n")

	next := "focus session"
	if c.Next == domain.SessionBreak {
		next = "short break"
		if c.LongBreak {
			next = "long break"
		}
	}
	b.WriteString(fmt.Sprintf("Next up: %s (%s)\n", Bold(next), FormatMinutes(int(c.NextDuration.Minutes()))))
	return b.String()
}
