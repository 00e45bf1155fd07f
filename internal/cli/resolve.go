package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
)

// resolveByPrefix picks the single id starting with input. An exact match
// always wins.
func resolveByPrefix(kind, input string, ids []string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%s id is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q not found", kind, input)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%s id %q is ambiguous (%d matches)", kind, input, len(matches))
}

// resolveReminder accepts a full id or a unique prefix of one, as shown in
// `horae reminder list`.
func resolveReminder(ctx context.Context, app *App, input string) (*domain.Reminder, error) {
	all, err := app.Reminders.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, r := range all {
		ids[i] = r.ID
	}
	id, err := resolveByPrefix("reminder", input, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range all {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("reminder %q not found", input)
}

func resolveGoalID(ctx context.Context, app *App, input string) (string, error) {
	goals, err := app.Goals.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(goals))
	for i, g := range goals {
		ids[i] = g.ID
	}
	return resolveByPrefix("goal", input, ids)
}

// resolveDate expands "today", "tomorrow" and weekday names relative to now
// and passes YYYY-MM-DD through unchanged.
func resolveDate(input string, now time.Time) (string, error) {
	s := strings.ToLower(strings.TrimSpace(input))
	switch s {
	case "today":
		return now.Format(domain.ReminderDateLayout), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format(domain.ReminderDateLayout), nil
	}
	if wd, ok := domain.ParseWeekday(s); ok && len(s) > 1 {
		ahead := (int(wd) - int(now.Weekday()) + 7) % 7
		if ahead == 0 {
			ahead = 7
		}
		return now.AddDate(0, 0, ahead).Format(domain.ReminderDateLayout), nil
	}
	if _, err := time.Parse(domain.ReminderDateLayout, input); err != nil {
		return "", fmt.Errorf("date %q: use YYYY-MM-DD, today, tomorrow or a weekday", input)
	}
	return input, nil
}

// parseWeekdays turns "mon,wed" into the 0-6 weekday numbers reminders store.
func parseWeekdays(input string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		wd, ok := domain.ParseWeekday(strings.ToLower(part))
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, int(wd))
	}
	return days, nil
}
