package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/horae/internal/cli/formatter"
	"github.com/alexanderramin/horae/internal/domain"
	"github.com/alexanderramin/horae/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const watchMaxBarWidth = 48

type watchTickMsg time.Time

type watchStatusMsg struct {
	status     service.TimerStatus
	completion *service.Completion
	err        error
}

type watchKeyMap struct {
	Toggle  key.Binding
	Stop    key.Binding
	Next    key.Binding
	Silence key.Binding
	Quit    key.Binding
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Stop, k.Next, k.Silence, k.Quit}
}

func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultWatchKeys() watchKeyMap {
	return watchKeyMap{
		Toggle:  key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause/resume")),
		Stop:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Next:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "start next")),
		Silence: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "silence alarm")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// watchModel polls the timer once a second and completes segments as
// they reach zero.
type watchModel struct {
	ctx  context.Context
	app  *App
	keys watchKeyMap
	help help.Model
	bar  progress.Model

	status     service.TimerStatus
	completion *service.Completion
	err        error
}

func newWatchModel(ctx context.Context, app *App) *watchModel {
	return &watchModel{
		ctx:  ctx,
		app:  app,
		keys: defaultWatchKeys(),
		help: help.New(),
		bar: progress.New(
			progress.WithGradient(string(formatter.ColorBlue), string(formatter.ColorGreen)),
			progress.WithoutPercentage(),
			progress.WithWidth(watchMaxBarWidth),
		),
	}
}

func (m *watchModel) Init() tea.Cmd {
	return m.refresh
}

func (m *watchModel) refresh() tea.Msg {
	completion, err := m.app.Timer.Check(m.ctx)
	if err != nil {
		return watchStatusMsg{err: err}
	}
	st, err := m.app.Timer.Status(m.ctx)
	return watchStatusMsg{status: st, completion: completion, err: err}
}

func tickWatch() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return watchTickMsg(t) })
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-8, 10), watchMaxBarWidth)
		m.help.Width = msg.Width
		return m, nil

	case watchStatusMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
		}
		if msg.completion != nil {
			m.completion = msg.completion
		}
		return m, tickWatch()

	case watchTickMsg:
		return m, m.refresh

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *watchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		switch m.status.Phase {
		case domain.PhaseRunning:
			_, err = m.app.Timer.Pause(m.ctx)
		case domain.PhasePaused:
			_, err = m.app.Timer.Resume(m.ctx)
		default:
			return m, nil
		}
	case key.Matches(msg, m.keys.Stop):
		if m.status.Phase == domain.PhaseInactive {
			return m, nil
		}
		_, err = m.app.Timer.Stop(m.ctx)
	case key.Matches(msg, m.keys.Next):
		if m.status.Phase != domain.PhaseInactive {
			return m, nil
		}
		req := service.StartTimerRequest{Type: domain.SessionWork}
		if m.completion != nil {
			req.Type = m.completion.Next
			req.Duration = m.completion.NextDuration
			req.Subject = m.completion.Session.Subject
		}
		_, err = m.app.Timer.Start(m.ctx, req)
		if err == nil {
			m.completion = nil
		}
	case key.Matches(msg, m.keys.Silence):
		err = m.app.Alarm.Stop(m.ctx)
	default:
		return m, nil
	}
	if err != nil {
		m.err = err
		return m, nil
	}
	return m, m.refresh
}

func (m *watchModel) View() string {
	var b strings.Builder
	st := m.status

	b.WriteString(formatter.PhasePill(st.Phase))
	if st.State != nil && st.Phase != domain.PhaseInactive {
		b.WriteString("  " + formatter.SessionTypeBadge(st.State.SessionType))
		if s := strings.TrimSpace(st.State.Subject); s != "" {
			b.WriteString("  " + formatter.Bold(s))
		}
	}
	b.WriteString("\n\n")

	if st.Phase == domain.PhaseInactive {
		b.WriteString(formatter.Dim("No segment running.") + "\n")
	} else {
		b.WriteString("  " + formatter.StyleHeader.Render(formatter.FormatCountdown(st.Remaining)) + "\n")
		b.WriteString("  " + m.bar.ViewAs(st.Progress) + "\n")
	}

	if m.completion != nil {
		b.WriteString("\n" + formatter.FormatCompletion(m.completion))
	}
	if m.app.Alarm.IsActive(m.ctx) {
		b.WriteString("\n" + formatter.StyleRed.Render("🔔 Alarm ringing") + formatter.Dim(" (a to silence)") + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + formatter.StyleRed.Render(fmt.Sprintf("Error: %v", m.err)) + "\n")
	}
	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}
