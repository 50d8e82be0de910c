package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/echograde/echograde/internal/grading"
	"github.com/echograde/echograde/internal/ui/theme"
)

// RenderFeedback renders the "Your Result" card. Sections whose field is
// empty are omitted; the gauge is omitted when there is no numeric score.
func RenderFeedback(fb grading.Feedback, width int) string {
	cardW := max(20, width)
	textW := max(10, cardW-8)

	var sections []string
	sections = append(sections, theme.Title.Render("Your Result"))

	if g := ScoreGauge(fb.Score); g != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(textW, lipgloss.Center, g))
	}

	if fb.Verdict != "" {
		sections = append(sections,
			theme.SectionHeading.Render("Verdict")+"\n"+theme.Badge.Render(fb.Verdict))
	}
	if fb.Comment != "" {
		sections = append(sections, textSection("Comment", fb.Comment, textW))
	}
	if fb.Advice != "" {
		sections = append(sections, textSection("Advice", fb.Advice, textW))
	}
	if fb.HasUnmatchedEquations() {
		sections = append(sections, unmatchedSection(fb.UnmatchedEquations, textW))
	}

	return lipgloss.NewStyle().
		Width(cardW).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 2).
		Render(strings.Join(sections, "\n\n"))
}

func textSection(heading, body string, width int) string {
	return theme.SectionHeading.Render(heading) + "\n" +
		lipgloss.NewStyle().
			Width(width).
			Foreground(theme.Text).
			Render(body)
}

func unmatchedSection(eqs []string, width int) string {
	danger := lipgloss.NewStyle().Foreground(theme.Error)

	var b strings.Builder
	b.WriteString(danger.Bold(true).Render("You may have missed these key steps:"))
	for _, eq := range eqs {
		b.WriteString("\n")
		b.WriteString(danger.Width(width).Render("• " + eq))
	}

	return theme.SectionHeading.Foreground(theme.Error).Render("Unmatched Equations") + "\n" + b.String()
}

// FeedbackSkeleton renders a placeholder shaped like the result card, shown
// while grading is in progress.
func FeedbackSkeleton(width int) string {
	cardW := max(20, width)
	textW := max(10, cardW-8)

	bar := func(frac float64) string {
		return theme.SkeletonBlock.Render(strings.Repeat("▒", max(1, int(float64(textW)*frac))))
	}

	blocks := []string{
		bar(0.5),
		lipgloss.PlaceHorizontal(textW, lipgloss.Center,
			theme.SkeletonBlock.Render(strings.Repeat(strings.Repeat("▒", ringCols*ringCellW)+"\n", ringRows-1)+
				strings.Repeat("▒", ringCols*ringCellW))),
		bar(0.25) + "\n" + bar(0.33),
		bar(0.25) + "\n" + bar(1) + "\n" + bar(1) + "\n" + bar(0.75),
		bar(0.25) + "\n" + bar(1) + "\n" + bar(0.75),
	}

	return lipgloss.NewStyle().
		Width(cardW).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 2).
		Render(strings.Join(blocks, "\n\n"))
}
