package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/notify"
	"github.com/alexanderramin/horae/internal/scheduler"
	"github.com/alexanderramin/horae/internal/service"
)

// FormatReminderList renders reminders as a table with relative due dates.
func FormatReminderList(title string, reminders []*domain.Reminder, now time.Time, loc *time.Location) string {
	if len(reminders) == 0 {
		return RenderBox(title, Dim("No reminders."))
	}

	headers := []string{"ID", "TYPE", "TITLE", "DUE", "WHEN", "CHANNELS"}
	rows := make([][]string, 0, len(reminders))
	for _, r := range reminders {
		when := Dim("--")
		if due, err := r.DueInstant(loc); err == nil {
			when = RelativeDateStyled(due, now)
		}
		titleCell := Truncate(r.Title, 32)
		if r.Completed {
			titleCell = Dim("✔ " + titleCell)
		}
		rows = append(rows, []string{
			TruncID(r.ID),
			ReminderTypeColor(r.Type).Render(notify.TypeEmoji(r.Type) + " " + string(r.Type)),
			titleCell,
			r.Date + " " + r.Time,
			when,
			ChannelList(r),
		})
	}
	return RenderBox(title, RenderTable(headers, rows))
}

// ChannelList names the enabled outbound channels of r.
func ChannelList(r *domain.Reminder) string {
	var ch []string
	if r.WhatsAppEnabled {
		ch = append(ch, "whatsapp")
	}
	if r.TelegramEnabled {
		ch = append(ch, "telegram")
	}
	if len(ch) == 0 {
		return Dim("local")
	}
	return strings.Join(ch, ",")
}

// FormatReminderDetail renders every user-facing field of r.
func FormatReminderDetail(r *domain.Reminder) string {
	var b strings.Builder
	line := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(fmt.Sprintf("%s %s\n", Dim(fmt.Sprintf("%-12s", label)), value))
	}
	line("ID", r.ID)
	line("Title", Bold(r.Title))
	line("Type", ReminderTypeColor(r.Type).Render(notify.TypeLabel(r.Type)))
	line("Due", notify.FormatDate(r.Date)+" "+notify.FormatClock(r.Time))
	line("Subject", r.Subject)
	line("Location", r.Location)
	line("Description", r.Description)
	line("Notify", fmt.Sprintf("%d min before", r.NotifyBefore))
	line("Channels", ChannelList(r))
	if r.Recurring != "" && r.Recurring != domain.RecurNone {
		line("Repeats", string(r.Recurring))
	}
	if r.Completed {
		line("Status", StyleGreen.Render("✔ completed"))
	}
	return RenderBox("Reminder", strings.TrimRight(b.String(), "\n"))
}

// FormatSendResult reports a manual delivery attempt.
func FormatSendResult(res service.SendResult) string {
	if res.Success {
		return StyleGreen.Render("✔ Sent") + Dim(" ("+res.ID+")") + "\n"
	}
	return StyleRed.Render("✖ Send failed: ") + res.Error + "\n"
}

// FormatArmReport summarizes one scheduling pass.
func FormatArmReport(r scheduler.ArmReport) string {
	return fmt.Sprintf("%s armed, %s deferred, %s lapsed, %s skipped\n",
		StyleGreen.Render(fmt.Sprint(r.Armed)),
		StyleBlue.Render(fmt.Sprint(r.Deferred)),
		StyleYellow.Render(fmt.Sprint(r.Lapsed)),
		Dim(fmt.Sprint(r.Skipped)),
	)
}
