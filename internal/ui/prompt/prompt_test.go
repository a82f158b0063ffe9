package prompt

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardPrompterConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"exact match", "reports\n", true},
		{"surrounding whitespace", "  reports  \n", true},
		{"no trailing newline", "reports", true},
		{"mismatch", "report\n", false},
		{"empty input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewStandardPrompter(strings.NewReader(tt.input), &out)

			ok, err := p.Confirm("Delete bucket reports?", "reports")
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "To confirm, type 'reports'")
		})
	}
}

func TestConfirmRequiresExpectedValue(t *testing.T) {
	_, err := NewStandardPrompter(strings.NewReader("x\n"), &bytes.Buffer{}).Confirm("msg", "")
	assert.Error(t, err)

	_, err = NewTUIPrompter(strings.NewReader(""), &bytes.Buffer{}).Confirm("msg", "")
	assert.Error(t, err)
}

func TestNewPrompterFallsBackWithoutTerminal(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})
	assert.IsType(t, &StandardPrompter{}, p)
}

func typeInto(m confirmModel, text string) confirmModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(confirmModel)
}

func TestConfirmModel(t *testing.T) {
	m := newConfirmModel("Delete object?", "a.txt")
	assert.Contains(t, m.View(), "To confirm, type 'a.txt':")

	m = typeInto(m, "a.txt")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(confirmModel)
	assert.True(t, m.done)
	assert.True(t, m.confirmed)
	require.NotNil(t, cmd)
	assert.Empty(t, m.View())

	m = typeInto(newConfirmModel("Delete object?", "a.txt"), "b.txt")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, next.(confirmModel).confirmed)

	m = typeInto(newConfirmModel("Delete object?", "a.txt"), "a.txt")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, next.(confirmModel).done)
	assert.False(t, next.(confirmModel).confirmed)
}
