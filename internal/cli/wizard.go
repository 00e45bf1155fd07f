package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/horae/internal/cli/formatter"
	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/notify"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// horaeHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func horaeHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// reminderDraft holds form fields as strings until submission.
type reminderDraft struct {
	Title        string
	Type         domain.ReminderType
	Date         string
	Time         string
	Subject      string
	Location     string
	NotifyBefore string
	WhatsApp     string
	Telegram     string
}

// reminderForm collects a new reminder interactively.
func reminderForm(d *reminderDraft, now time.Time) *huh.Form {
	if d.Date == "" {
		d.Date = now.Format(domain.ReminderDateLayout)
	}
	types := make([]huh.Option[domain.ReminderType], 0, len(reminderTypeOrder))
	for _, t := range reminderTypeOrder {
		types = append(types, huh.NewOption(notify.TypeEmoji(t)+" "+notify.TypeLabel(t), t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&d.Title).Validate(validateRequired("title")),
			huh.NewSelect[domain.ReminderType]().Title("Type").Options(types...).Value(&d.Type),
			huh.NewInput().Title("Date (YYYY-MM-DD)").Value(&d.Date).Validate(validateDate),
			huh.NewInput().Title("Time (HH:MM)").Placeholder("09:00").Value(&d.Time).Validate(validateClock),
		),
		huh.NewGroup(
			huh.NewInput().Title("Subject").Value(&d.Subject),
			huh.NewInput().Title("Location").Value(&d.Location),
			huh.NewInput().Title("Notify minutes before").Placeholder("default").
				Value(&d.NotifyBefore).Validate(validateNonNegativeInt),
		),
		huh.NewGroup(
			huh.NewInput().Title("WhatsApp number").Description("International format, blank to skip").
				Placeholder("+491701234567").Value(&d.WhatsApp),
			huh.NewInput().Title("Telegram chat id").Description("Blank to skip").Value(&d.Telegram),
		),
	).WithTheme(horaeHuhTheme()).WithShowHelp(false)
}

var reminderTypeOrder = []domain.ReminderType{
	domain.ReminderStudy,
	domain.ReminderExam,
	domain.ReminderDeadline,
	domain.ReminderAssignment,
	domain.ReminderClass,
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateDate(s string) error {
	if _, err := time.Parse(domain.ReminderDateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

func validateClock(s string) error {
	if _, err := time.Parse(domain.ReminderTimeLayout, s); err != nil {
		return fmt.Errorf("use HH:MM format")
	}
	return nil
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}
