package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
)

// FormatSessionList renders the session log newest first.
func FormatSessionList(sessions []domain.LocalSession, now time.Time) string {
	if len(sessions) == 0 {
		return RenderBox("Sessions", Dim("No sessions logged yet."))
	}

	headers := []string{"WHEN", "TYPE", "SUBJECT", "DURATION"}
	rows := make([][]string, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		subject := strings.TrimSpace(s.Subject)
		if subject == "" {
			subject = Dim("General")
		}
		rows = append(rows, []string{
			HumanTimestamp(s.CompletedAt, now),
			SessionTypeBadge(s.SessionType),
			subject,
			FormatMinutes(s.Duration),
		})
	}
	return RenderBox("Sessions", RenderTable(headers, rows))
}

// FormatSummary renders today's and this week's totals with a per-subject
// breakdown.
func FormatSummary(sum domain.SessionSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s  %s\n",
		Dim("Today:"), Bold(FormatMinutes(sum.TodayMinutes)),
		Dim(fmt.Sprintf("(%d pomodoros)", sum.TodayPomodoros))))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Week: "), Bold(FormatMinutes(sum.WeekMinutes))))
	b.WriteString(fmt.Sprintf("%s %d\n", Dim("Logged:"), sum.TotalSessions))

	if len(sum.WeekSubjects) > 0 {
		b.WriteString("\n" + Header("By subject") + "\n")
		top := sum.WeekSubjects[0].Minutes
		for _, s := range sum.WeekSubjects {
			pct := 0.0
			if top > 0 {
				pct = float64(s.Minutes) / float64(top)
			}
			b.WriteString(fmt.Sprintf("%-16s %s %s\n", Truncate(s.Subject, 16), RenderCompactBar(pct, 12, false), FormatMinutes(s.Minutes)))
		}
	}
	return RenderBox("Summary", strings.TrimRight(b.String(), "\n"))
}
