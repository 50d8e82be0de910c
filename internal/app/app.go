package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/echograde/echograde/internal/question"
	"github.com/echograde/echograde/internal/router"
	"github.com/echograde/echograde/internal/screen"
	"github.com/echograde/echograde/internal/screens/grade"
	"github.com/echograde/echograde/internal/store"
	"github.com/echograde/echograde/internal/ui/layout"
	"github.com/echograde/echograde/internal/ui/toast"
)

// Options holds the dependencies injected into the TUI.
type Options struct {
	Grader   grade.Grader
	Question question.Question

	// Results enables the history screen and result persistence when set.
	Results store.ResultRepo

	Logger zerolog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	toast  toast.Model
	topic  string
	width  int
	height int
}

// newAppModel creates a new AppModel with the grade screen as root.
func newAppModel(opts Options) AppModel {
	root := grade.New(opts.Grader, opts.Question, opts.Results, opts.Logger)
	return AppModel{
		router: router.New(root),
		toast:  toast.New(),
		topic:  opts.Question.Topic,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, m.router.Broadcast(msg)

	case toast.ShowMsg:
		var cmd tea.Cmd
		m.toast, cmd = m.toast.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	// Expiry messages are private to the toast model, so every other
	// message passes through it too.
	var toastCmd tea.Cmd
	m.toast, toastCmd = m.toast.Update(msg)

	cmd := m.router.Update(msg)
	return m, tea.Batch(cmd, toastCmd)
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes the frame for the current window size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.topic, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer))

	content := m.router.View(m.width, contentHeight)
	if t := m.toast.View(m.width); t != "" {
		content = t + "\n" + content
	}

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	if _, err := p.Run(); err != nil {
		opts.Logger.Error().Err(err).Msg("program exited with error")
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
