package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/echograde/echograde/internal/gauge"
	"github.com/echograde/echograde/internal/router"
	"github.com/echograde/echograde/internal/screen"
	"github.com/echograde/echograde/internal/store"
	"github.com/echograde/echograde/internal/ui/components"
	"github.com/echograde/echograde/internal/ui/layout"
	"github.com/echograde/echograde/internal/ui/theme"
)

// Limit caps how many past results the screen loads.
const Limit = 50

type historyLoadedMsg struct {
	Records []store.ResultRecord
	Err     error
}

// HistoryScreen lists past graded answers, newest first.
type HistoryScreen struct {
	repo     store.ResultRepo
	records  []store.ResultRecord
	selected int
	expanded bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.ResultRepo) *HistoryScreen {
	return &HistoryScreen{repo: repo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.repo
	return func() tea.Msg {
		recs, err := repo.Recent(context.Background(), Limit)
		return historyLoadedMsg{Records: recs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	if s.expanded {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Close"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if len(s.records) > 0 {
				s.expanded = !s.expanded
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if s.errMsg != "" {
		return centered.Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return centered.Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return centered.Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No graded answers yet.")
	}

	if s.expanded {
		return s.renderDetail(width)
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, rec := range s.records {
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(prefix+SummaryLine(rec))))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *HistoryScreen) renderDetail(width int) string {
	rec := s.records[s.selected]
	cw := max(20, min(width-4, 100))

	header := theme.Subtitle.Render(fmt.Sprintf("%s  ·  %s  ·  attempt %s",
		rec.CreatedAt.Format("Jan 02, 2006 15:04"), rec.QuestionID, rec.AttemptID))
	answer := theme.Card.Width(cw).Render(
		theme.SectionHeading.Render("Your Answer") + "\n" +
			lipgloss.NewStyle().Width(max(10, cw-6)).Render(rec.Answer))

	body := "\n" + header + "\n\n" + answer + "\n\n" + components.RenderFeedback(rec.Feedback, cw)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

// SummaryLine renders one history row: date, question, score and verdict.
func SummaryLine(rec store.ResultRecord) string {
	scoreStr := "    -  "
	if r, ok := gauge.Read(rec.Feedback.Score); ok {
		scoreStr = lipgloss.NewStyle().Foreground(components.TierColor(r.Tier)).
			Render(fmt.Sprintf("%4s/10", components.FormatScore(r.Score)))
	}

	verdict := rec.Feedback.Verdict
	if verdict == "" {
		verdict = "(no verdict)"
	}

	return fmt.Sprintf("#%-4d %s  %-8s %s  %s",
		rec.ID, rec.CreatedAt.Format("Jan 02, 2006 15:04"), rec.QuestionID, scoreStr, verdict)
}
