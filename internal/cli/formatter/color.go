package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/horae/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// ReminderTypeColor returns the style used for a reminder type badge.
func ReminderTypeColor(t domain.ReminderType) lipgloss.Style {
	switch t {
	case domain.ReminderExam:
		return StyleRed
	case domain.ReminderDeadline, domain.ReminderAssignment:
		return StyleYellow
	case domain.ReminderClass:
		return StyleBlue
	case domain.ReminderStudy:
		return StyleGreen
	default:
		return StyleDim
	}
}

// PhasePill returns a colored indicator such as "● RUNNING".
func PhasePill(phase domain.TimerPhase) string {
	switch phase {
	case domain.PhaseRunning:
		return StyleGreen.Render("● RUNNING")
	case domain.PhasePaused:
		return StyleYellow.Render("○ PAUSED")
	default:
		return StyleDim.Render("◌ IDLE")
	}
}

// SessionTypeBadge labels a segment as focus or break time.
func SessionTypeBadge(t domain.SessionType) string {
	if t == domain.SessionBreak {
		return StyleBlue.Render("☕ Break")
	}
	return StylePurple.Render("📖 Focus")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
