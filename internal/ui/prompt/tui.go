// File: internal/ui/prompt/tui.go
package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

// TUIPrompter runs a small bubbletea program with a text input
type TUIPrompter struct {
	in  io.Reader
	out io.Writer
}

func NewTUIPrompter(in io.Reader, out io.Writer) *TUIPrompter {
	return &TUIPrompter{in: in, out: out}
}

func (p *TUIPrompter) Confirm(message string, expectedValue string) (bool, error) {
	if expectedValue == "" {
		return false, fmt.Errorf("expected confirmation value cannot be empty")
	}

	program := tea.NewProgram(newConfirmModel(message, expectedValue), tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("error running confirmation prompt: %w", err)
	}

	m, ok := final.(confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected prompt model %T", final)
	}
	return m.confirmed, nil
}

type confirmModel struct {
	message   string
	expected  string
	input     textinput.Model
	done      bool
	confirmed bool
}

func newConfirmModel(message, expected string) confirmModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = expected
	ti.CharLimit = 1024
	ti.Focus()

	return confirmModel{
		message:  message,
		expected: expected,
		input:    ti,
	}
}

func (m confirmModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			m.confirmed = strings.TrimSpace(m.input.Value()) == m.expected
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s\n",
		warningStyle.Render(m.message),
		fmt.Sprintf("To confirm, type '%s':", m.expected),
		m.input.View(),
		hintStyle.Render("(enter to submit, esc to cancel)"),
	)
}
