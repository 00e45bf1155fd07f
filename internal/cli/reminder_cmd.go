package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alexanderramin/horae/internal/cli/formatter"
	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/service"
	"github.com/spf13/cobra"
)

func newReminderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reminder",
		Aliases: []string{"r", "reminders"},
		Short:   "Manage exam, deadline and study reminders",
	}

	cmd.AddCommand(
		newReminderAddCmd(app),
		newReminderListCmd(app),
		newReminderUpcomingCmd(app),
		newReminderTodayCmd(app),
		newReminderShowCmd(app),
		newReminderUpdateCmd(app),
		newReminderDoneCmd(app),
		newReminderRemoveCmd(app),
		newReminderSendCmd(app),
		newReminderRearmCmd(app),
		newReminderExportCmd(app),
		newReminderImportCmd(app),
	)

	return cmd
}

// reminderFlags are shared by add and update.
type reminderFlags struct {
	title, description, date, clock, typ string
	subject, location                    string
	whatsapp, telegram                   string
	notifyBefore                         int
	repeat, days                         string
}

func (f *reminderFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "Reminder title")
	fl.StringVar(&f.description, "description", "", "Longer description")
	fl.StringVar(&f.date, "date", "", "Due date: YYYY-MM-DD, today, tomorrow or a weekday")
	fl.StringVar(&f.clock, "time", "", "Due time (HH:MM)")
	fl.StringVar(&f.typ, "type", "", "study, exam, deadline, assignment or class")
	fl.StringVar(&f.subject, "subject", "", "Subject")
	fl.StringVar(&f.location, "location", "", "Where it takes place")
	fl.StringVar(&f.whatsapp, "whatsapp", "", "Send to this WhatsApp number (empty string disables on update)")
	fl.StringVar(&f.telegram, "telegram", "", "Send to this Telegram chat id (empty string disables on update)")
	fl.IntVar(&f.notifyBefore, "notify-before", -1, "Minutes before due to notify (default from config)")
	fl.StringVar(&f.repeat, "repeat", "", "none, daily, weekly or monthly")
	fl.StringVar(&f.days, "days", "", "Weekdays for weekly repeats, e.g. mon,wed")
}

func (f *reminderFlags) input(app *App) (service.ReminderInput, error) {
	in := service.ReminderInput{
		Title:           f.title,
		Description:     f.description,
		Time:            f.clock,
		Type:            domain.ReminderType(f.typ),
		Subject:         f.subject,
		Location:        f.location,
		WhatsAppEnabled: f.whatsapp != "",
		WhatsAppNumber:  f.whatsapp,
		TelegramEnabled: f.telegram != "",
		TelegramChatID:  f.telegram,
		Recurring:       domain.RecurrenceKind(f.repeat),
	}
	date, err := resolveDate(f.date, app.now())
	if err != nil {
		return in, err
	}
	in.Date = date
	if f.notifyBefore >= 0 {
		n := f.notifyBefore
		in.NotifyBefore = &n
	}
	if f.days != "" {
		if in.RecurringDays, err = parseWeekdays(f.days); err != nil {
			return in, err
		}
	}
	return in, nil
}

// patch includes only the flags the user set.
func (f *reminderFlags) patch(cmd *cobra.Command, app *App) (domain.ReminderPatch, error) {
	var p domain.ReminderPatch
	changed := cmd.Flags().Changed
	str := func(name, v string) *string {
		if changed(name) {
			return &v
		}
		return nil
	}
	p.Title = str("title", f.title)
	p.Description = str("description", f.description)
	p.Time = str("time", f.clock)
	p.Subject = str("subject", f.subject)
	p.Location = str("location", f.location)
	if changed("date") {
		date, err := resolveDate(f.date, app.now())
		if err != nil {
			return p, err
		}
		p.Date = &date
	}
	if changed("type") {
		t := domain.ReminderType(f.typ)
		p.Type = &t
	}
	if changed("whatsapp") {
		enabled := f.whatsapp != ""
		p.WhatsAppEnabled = &enabled
		p.WhatsAppNumber = &f.whatsapp
	}
	if changed("telegram") {
		enabled := f.telegram != ""
		p.TelegramEnabled = &enabled
		p.TelegramChatID = &f.telegram
	}
	if changed("notify-before") {
		p.NotifyBefore = &f.notifyBefore
	}
	if changed("repeat") {
		k := domain.RecurrenceKind(f.repeat)
		p.Recurring = &k
	}
	if changed("days") {
		days, err := parseWeekdays(f.days)
		if err != nil {
			return p, err
		}
		if days == nil {
			days = []int{}
		}
		p.RecurringDays = days
	}
	return p, nil
}

func newReminderAddCmd(app *App) *cobra.Command {
	var f reminderFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a reminder (prompts for fields when run without --title on a terminal)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.title == "" {
				if !app.interactive() {
					return fmt.Errorf("--title is required")
				}
				if err := f.fillFromForm(app); err != nil {
					return err
				}
			}
			if f.date == "" {
				f.date = "today"
			}
			in, err := f.input(app)
			if err != nil {
				return err
			}
			r, err := app.Reminders.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added reminder %s %s\n", formatter.Bold(r.Title), formatter.TruncID(r.ID))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func (f *reminderFlags) fillFromForm(app *App) error {
	d := reminderDraft{Type: domain.ReminderStudy, Time: f.clock}
	if err := reminderForm(&d, app.now()).Run(); err != nil {
		return err
	}
	f.title, f.typ, f.date, f.clock = d.Title, string(d.Type), d.Date, d.Time
	f.subject, f.location = d.Subject, d.Location
	f.whatsapp, f.telegram = strings.TrimSpace(d.WhatsApp), strings.TrimSpace(d.Telegram)
	if d.NotifyBefore != "" {
		f.notifyBefore, _ = strconv.Atoi(d.NotifyBefore)
	}
	return nil
}

func newReminderListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List reminders ordered by due time",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Reminders.List(cmd.Context())
			if err != nil {
				return err
			}
			if !all {
				open := list[:0:0]
				for _, r := range list {
					if !r.Completed {
						open = append(open, r)
					}
				}
				list = open
			}
			domain.SortByDue(list, app.Location)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReminderList("Reminders", list, app.now(), app.Location))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed reminders")
	return cmd
}

func newReminderUpcomingCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List open reminders due in the next few days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}
			list, err := app.Reminders.ListUpcoming(cmd.Context(), days)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("Next %d days", days)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReminderList(title, list, app.now(), app.Location))
			return nil
		},
	}

	def := app.UpcomingDays
	if def < 1 {
		def = 7
	}
	cmd.Flags().IntVarP(&days, "days", "d", def, "Window in days")
	return cmd
}

func newReminderTodayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "List open reminders dated today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Reminders.ListToday(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReminderList("Today", list, app.now(), app.Location))
			return nil
		},
	}
}

func newReminderShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := resolveReminder(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReminderDetail(r))
			return nil
		},
	}
}

func newReminderUpdateCmd(app *App) *cobra.Command {
	var f reminderFlags

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			existing, err := resolveReminder(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := f.patch(cmd, app)
			if err != nil {
				return err
			}
			r, err := app.Reminders.Update(ctx, existing.ID, p)
			if err != nil {
				return err
			}
			if r == nil {
				return fmt.Errorf("reminder %q not found", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReminderDetail(r))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newReminderDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "done ID",
		Aliases: []string{"complete"},
		Short:   "Mark a reminder completed; it will not be sent",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := resolveReminder(ctx, app, args[0])
			if err != nil {
				return err
			}
			if _, err := app.Reminders.MarkCompleted(ctx, r.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Completed %s\n", formatter.Bold(r.Title))
			return nil
		},
	}
}

func newReminderRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a reminder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := resolveReminder(ctx, app, args[0])
			if err != nil {
				return err
			}
			if _, err := app.Reminders.Delete(ctx, r.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed reminder %s\n", formatter.Bold(r.Title))
			return nil
		},
	}
}

func newReminderSendCmd(app *App) *cobra.Command {
	var text bool

	cmd := &cobra.Command{
		Use:   "send ID",
		Short: "Send a reminder now on its enabled channels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := resolveReminder(ctx, app, args[0])
			if err != nil {
				return err
			}
			res := app.Reminders.SendNotification(ctx, r, text)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSendResult(res))
			if !res.Success {
				return fmt.Errorf("delivery failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&text, "force-text", false, "Send free text instead of the approved template")
	return cmd
}

func newReminderRearmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rearm",
		Short: "Re-schedule every open reminder in this process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatArmReport(app.Reminders.RearmAll(cmd.Context())))
			return nil
		},
	}
}

func newReminderExportCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all reminders as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Reminders.Export(cmd.Context())
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported reminders to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "file", "f", "", "File to write (default stdout)")
	return cmd
}

func newReminderImportCmd(app *App) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load reminders from a YAML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			n, err := app.Reminders.Import(cmd.Context(), data, replace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d reminders\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace all existing reminders instead of merging")
	return cmd
}
