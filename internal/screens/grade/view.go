package grade

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/echograde/echograde/internal/ui/components"
	"github.com/echograde/echograde/internal/ui/theme"
)

const loadingNotice = "This may take a few minutes. Please don't close the terminal."

func (s *GradeScreen) View(width, height int) string {
	lines := strings.Split(s.renderBody(contentWidth(width)), "\n")
	offset := max(0, min(s.scroll, len(lines)-height))
	end := min(len(lines), offset+height)

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines[offset:end], "\n"))
}

// renderBody renders the full scrollable content. Loading preempts the
// result card.
func (s *GradeScreen) renderBody(cw int) string {
	body := s.renderTop(cw)
	switch {
	case s.loading:
		body += "\n\n" + components.FeedbackSkeleton(cw)
	case s.result != nil:
		body += "\n\n" + components.RenderFeedback(s.result.Feedback, cw)
	}
	return body
}

// renderTop renders everything above the feedback area.
func (s *GradeScreen) renderTop(cw int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderQuestion(cw))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	b.WriteString(s.renderButton())
	if s.loading {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(loadingNotice))
	}
	return b.String()
}

func (s *GradeScreen) renderQuestion(cw int) string {
	q := s.question
	content := theme.Title.Render("Question")
	if q.Topic != "" {
		content += "\n" + theme.Subtitle.Render(q.Topic)
	}
	content += "\n\n" + lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(max(10, cw-6)).
		Render(q.Text)

	return theme.Card.Width(cw).Render(content)
}

func (s *GradeScreen) renderButton() string {
	if s.loading {
		elapsed := s.now().Sub(s.startedAt).Truncate(time.Second)
		label := fmt.Sprintf("%s Analyzing... Please wait  %s",
			components.SpinnerFrame(s.spinTick), elapsed)
		return components.NewButton(label, false).View()
	}
	ready := strings.TrimSpace(s.input.Value()) != ""
	return components.NewButton("Get Feedback", ready).View()
}

// resultOffset is the scroll position that puts the result card at the top.
func (s *GradeScreen) resultOffset() int {
	if s.width == 0 {
		return 0
	}
	return lipgloss.Height(s.renderTop(contentWidth(s.width))) + 1
}

// maxScroll is the largest useful scroll offset for the last known size.
func (s *GradeScreen) maxScroll() int {
	if s.width == 0 {
		return 0
	}
	return max(0, lipgloss.Height(s.renderBody(contentWidth(s.width)))-s.height)
}
