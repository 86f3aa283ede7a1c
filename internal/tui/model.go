// Package tui renders the record control in a terminal.
package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hearmony/backend/internal/recorder"
)

// UI message types
type EnabledMsg struct{ Enabled bool }
type LabelMsg struct{ Text string }
type OutputMsg struct{ Text string }
type OutcomeMsg struct{ Outcome recorder.Outcome }

// TriggerFunc starts one record cycle.
type TriggerFunc func(ctx context.Context) <-chan recorder.Outcome

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Foreground(lipgloss.Color("231"))

	disabledButtonStyle = buttonStyle.
				BorderForeground(lipgloss.Color("240")).
				Foreground(lipgloss.Color("244")).
				Faint(true)

	outputStyle = lipgloss.NewStyle().MarginTop(1)
	errorStyle  = outputStyle.Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// Model is the bubbletea model of the record screen.
type Model struct {
	ctx     context.Context
	trigger TriggerFunc
	server  string

	enabled bool
	label   string
	output  string
	failed  bool
	cycles  int
	width   int
}

// NewModel creates a model with an enabled "Record" button.
func NewModel(ctx context.Context, trigger TriggerFunc, server string) Model {
	return Model{
		ctx:     ctx,
		trigger: trigger,
		server:  server,
		enabled: true,
		label:   recorder.LabelRecord,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter", " ", "space":
			if !m.enabled {
				return m, nil
			}
			// 按钮状态由 handler 回写，这里先置灰避免重复触发
			m.enabled = false
			return m, m.startCycle()
		}

	case EnabledMsg:
		m.enabled = msg.Enabled

	case LabelMsg:
		m.label = msg.Text

	case OutputMsg:
		m.output = msg.Text

	case OutcomeMsg:
		m.cycles++
		m.failed = msg.Outcome.Err != nil
	}
	return m, nil
}

func (m Model) startCycle() tea.Cmd {
	ctx, trigger := m.ctx, m.trigger
	return func() tea.Msg {
		return OutcomeMsg{Outcome: <-trigger(ctx)}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎙  Hearmony"))
	if m.server != "" {
		b.WriteString(helpStyle.UnsetMarginTop().Render("  " + m.server))
	}
	b.WriteString("\n\n")

	button := buttonStyle
	if !m.enabled {
		button = disabledButtonStyle
	}
	b.WriteString(button.Render(m.label))
	b.WriteString("\n")

	if m.output != "" {
		style := outputStyle
		if m.failed {
			style = errorStyle
		}
		if m.width > 0 {
			style = style.Width(m.width)
		}
		b.WriteString(style.Render(m.output))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("enter/space: record • q: quit"))
	b.WriteString("\n")
	return b.String()
}

// Enabled reports whether the button accepts input.
func (m Model) Enabled() bool { return m.enabled }

// Label returns the button text.
func (m Model) Label() string { return m.label }

// Output returns the message area text.
func (m Model) Output() string { return m.output }

// Cycles returns the number of settled cycles.
func (m Model) Cycles() int { return m.cycles }
