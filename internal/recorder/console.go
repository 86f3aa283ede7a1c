package recorder

import (
	"fmt"
	"io"
	"sync"
)

// ConsoleUI renders control changes as lines on a writer.
type ConsoleUI struct {
	mu      sync.Mutex
	w       io.Writer
	enabled bool
	label   string
	output  string
}

// NewConsoleUI creates a ConsoleUI with an enabled control.
func NewConsoleUI(w io.Writer, initialLabel string) *ConsoleUI {
	return &ConsoleUI{w: w, enabled: true, label: initialLabel}
}

func (c *ConsoleUI) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

func (c *ConsoleUI) SetLabel(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.label = label
	fmt.Fprintf(c.w, "[ %s ]\n", label)
}

func (c *ConsoleUI) SetOutput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.output = text
	if text != "" {
		fmt.Fprintln(c.w, text)
	}
}

// Snapshot returns the current control and output state.
func (c *ConsoleUI) Snapshot() (enabled bool, label, output string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled, c.label, c.output
}
