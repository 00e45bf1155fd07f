package notify

import (
	"strings"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
)

var typeEmoji = map[domain.ReminderType]string{
	domain.ReminderStudy:      "📚",
	domain.ReminderExam:       "📝",
	domain.ReminderDeadline:   "⏰",
	domain.ReminderAssignment: "📋",
	domain.ReminderClass:      "🎓",
}

var typeLabel = map[domain.ReminderType]string{
	domain.ReminderStudy:      "Study Session",
	domain.ReminderExam:       "Exam",
	domain.ReminderDeadline:   "Deadline",
	domain.ReminderAssignment: "Assignment",
	domain.ReminderClass:      "Class",
}

// FormatReminderMessage renders the multi-line chat message for r.
func FormatReminderMessage(r *domain.Reminder) string {
	emoji, label := TypeEmoji(r.Type), TypeLabel(r.Type)

	var b strings.Builder
	b.WriteString(emoji + " *" + label + " Reminder*\n\n")
	b.WriteString("*" + r.Title + "*\n")
	if d := strings.TrimSpace(r.Description); d != "" {
		b.WriteString(d + "\n")
	}
	b.WriteString("\n")
	b.WriteString("📅 " + FormatDate(r.Date) + "\n")
	b.WriteString("🕐 " + FormatClock(r.Time) + "\n")
	if s := strings.TrimSpace(r.Subject); s != "" {
		b.WriteString("📖 Subject: " + s + "\n")
	}
	if l := strings.TrimSpace(r.Location); l != "" {
		b.WriteString("📍 Location: " + l + "\n")
	}
	b.WriteString("\n")
	b.WriteString(closingLine(r.Type))
	return b.String()
}

// FormatDate renders "2025-03-10" as "Monday, March 10, 2025". Unparsable
// input is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(domain.ReminderDateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatClock renders "14:00" as "02:00 PM".
func FormatClock(clock string) string {
	t, err := time.Parse(domain.ReminderTimeLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format("03:04 PM")
}

func closingLine(t domain.ReminderType) string {
	switch t {
	case domain.ReminderExam:
		return "Good luck! You've prepared for this. 💪"
	case domain.ReminderDeadline, domain.ReminderAssignment:
		return "Don't leave it to the last minute! ✅"
	default:
		return "Stay focused and keep going! 🚀"
	}
}

// FormatLocalNotification renders the short title and body shown by the
// desktop notifier when a reminder fires.
func FormatLocalNotification(r *domain.Reminder) (title, body string) {
	title = TypeEmoji(r.Type) + " " + r.Title
	body = TypeLabel(r.Type) + " at " + FormatClock(r.Time)
	if l := strings.TrimSpace(r.Location); l != "" {
		body += " · " + l
	}
	return title, body
}

// TypeEmoji returns the icon for t, or a bell for unknown types.
func TypeEmoji(t domain.ReminderType) string {
	if e, ok := typeEmoji[t]; ok {
		return e
	}
	return "🔔"
}

func TypeLabel(t domain.ReminderType) string {
	if l, ok := typeLabel[t]; ok {
		return l
	}
	return "Study"
}
