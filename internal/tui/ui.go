package tui

import tea "github.com/charmbracelet/bubbletea"

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramUI forwards recorder UI changes into the bubbletea event loop.
// It must not be driven from inside Update, since Send blocks until the
// loop picks the message up.
type ProgramUI struct {
	sender Sender
}

func NewProgramUI(sender Sender) *ProgramUI {
	return &ProgramUI{sender: sender}
}

func (u *ProgramUI) SetEnabled(enabled bool) {
	u.sender.Send(EnabledMsg{Enabled: enabled})
}

func (u *ProgramUI) SetLabel(label string) {
	u.sender.Send(LabelMsg{Text: label})
}

func (u *ProgramUI) SetOutput(text string) {
	u.sender.Send(OutputMsg{Text: text})
}
