package formatter

import (
	"fmt"

	"github.com/alexanderramin/horae/internal/service"
)

const goalProgressBarWidth = 16

// FormatGoalProgress renders each goal with its bar for the current period.
func FormatGoalProgress(goals []service.GoalWithProgress) string {
	if len(goals) == 0 {
		return RenderBox("Goals", Dim("No goals yet. Add one with `horae goal add`."))
	}

	headers := []string{"ID", "GOAL", "PERIOD", "PROGRESS", "DONE"}
	rows := make([][]string, 0, len(goals))
	for _, g := range goals {
		title := Bold(g.Goal.Title)
		if g.Goal.Subject != "" {
			title += Dim(" · " + g.Goal.Subject)
		}
		done := fmt.Sprintf("%s / %s", FormatMinutes(g.Progress.CompletedMinutes), FormatMinutes(g.Goal.TargetMinutes))
		if g.Progress.IsCompleted {
			done = StyleGreen.Render("✔ " + done)
		}
		rows = append(rows, []string{
			TruncID(g.Goal.ID),
			title,
			string(g.Goal.Period),
			RenderProgress(float64(g.Progress.Percentage)/100, goalProgressBarWidth),
			done,
		})
	}
	return RenderBox("Goals", RenderTable(headers, rows))
}
