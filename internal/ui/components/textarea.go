package components

import (
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/echograde/echograde/internal/ui/theme"
)

// TextArea wraps bubbles/textarea with EchoGrade styling.
type TextArea struct {
	Model    textarea.Model
	disabled bool
}

// NewTextArea creates a focused multi-line input.
func NewTextArea(placeholder string, width, height int) TextArea {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.Focus()

	return TextArea{Model: ta}
}

// Init returns the initial command.
func (t TextArea) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update forwards messages to the textarea unless it is disabled.
func (t TextArea) Update(msg tea.Msg) (TextArea, tea.Cmd) {
	if t.disabled {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// SetDisabled blurs the textarea and drops input while disabled.
func (t *TextArea) SetDisabled(disabled bool) tea.Cmd {
	t.disabled = disabled
	if disabled {
		t.Model.Blur()
		return nil
	}
	return t.Model.Focus()
}

// Disabled reports whether input is currently ignored.
func (t TextArea) Disabled() bool {
	return t.disabled
}

// SetSize resizes the editing area.
func (t *TextArea) SetSize(width, height int) {
	t.Model.SetWidth(width)
	t.Model.SetHeight(height)
}

// View renders the textarea inside a border that dims while disabled.
func (t TextArea) View() string {
	border := theme.Primary
	if t.disabled {
		border = theme.Border
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(t.Model.View())
}

// Value returns the current input text.
func (t TextArea) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input text.
func (t *TextArea) SetValue(s string) {
	t.Model.SetValue(s)
}
