package toast

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/echograde/echograde/internal/ui/theme"
)

// DefaultDuration is how long a toast stays on screen.
const DefaultDuration = 5 * time.Second

// Variant selects the toast styling.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDestructive
)

// ShowMsg asks the toast region to display a notice.
type ShowMsg struct {
	Title       string
	Description string
	Variant     Variant
}

// expireMsg dismisses the toast with the matching id. Stale expiries from
// replaced toasts are ignored.
type expireMsg struct {
	id int
}

// Show returns a command that raises a toast.
func Show(title, description string, variant Variant) tea.Cmd {
	return func() tea.Msg {
		return ShowMsg{Title: title, Description: description, Variant: variant}
	}
}

// Model holds at most one visible toast; a new one replaces the old.
type Model struct {
	current  *ShowMsg
	seq      int
	duration time.Duration
}

// New creates a toast region with the default duration.
func New() Model {
	return Model{duration: DefaultDuration}
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.current != nil
}

// Current returns the showing toast, if any.
func (m Model) Current() (ShowMsg, bool) {
	if m.current == nil {
		return ShowMsg{}, false
	}
	return *m.current, true
}

// Update handles ShowMsg and expiry messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowMsg:
		m.seq++
		shown := msg
		m.current = &shown
		id := m.seq
		return m, tea.Tick(m.duration, func(time.Time) tea.Msg {
			return expireMsg{id: id}
		})

	case expireMsg:
		if msg.id == m.seq {
			m.current = nil
		}
		return m, nil
	}
	return m, nil
}

// View renders the toast box, or "" when nothing is showing.
func (m Model) View(width int) string {
	if m.current == nil {
		return ""
	}

	accent := theme.Secondary
	if m.current.Variant == VariantDestructive {
		accent = theme.Error
	}

	boxWidth := min(width, 60)

	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(m.current.Title)
	body := title
	if m.current.Description != "" {
		body += "\n" + lipgloss.NewStyle().Foreground(theme.Text).Render(m.current.Description)
	}

	box := lipgloss.NewStyle().
		Width(boxWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Render(body)

	return lipgloss.PlaceHorizontal(width, lipgloss.Right, box)
}
