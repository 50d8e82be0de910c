package components

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/echograde/echograde/internal/gauge"
	"github.com/echograde/echograde/internal/ui/theme"
)

// Ring geometry: a 7x5 cell rectangle whose perimeter holds the segments.
const (
	ringCols     = 7
	ringRows     = 5
	RingSegments = 2*ringCols + 2*(ringRows-2)
	ringCellW    = 2 // each cell is two columns wide to look square
)

var ringOrder = buildRingOrder()

// buildRingOrder lists perimeter cells clockwise starting at top center.
func buildRingOrder() [][2]int {
	var cells [][2]int
	mid := ringCols / 2
	for c := mid; c < ringCols; c++ {
		cells = append(cells, [2]int{0, c})
	}
	for r := 1; r < ringRows; r++ {
		cells = append(cells, [2]int{r, ringCols - 1})
	}
	for c := ringCols - 2; c >= 0; c-- {
		cells = append(cells, [2]int{ringRows - 1, c})
	}
	for r := ringRows - 2; r >= 0; r-- {
		cells = append(cells, [2]int{r, 0})
	}
	for c := 1; c < mid; c++ {
		cells = append(cells, [2]int{0, c})
	}
	return cells
}

// TierColor returns the color for a score tier.
func TierColor(t gauge.Tier) color.Color {
	switch t {
	case gauge.TierHigh:
		return theme.Success
	case gauge.TierMedium:
		return theme.Warning
	default:
		return theme.Error
	}
}

// FilledSegments returns how many ring segments a fill percentage lights up.
func FilledSegments(fill float64) int {
	n := int(math.Round(fill / 100 * RingSegments))
	return max(0, min(RingSegments, n))
}

// FormatScore renders a score with exactly one decimal place: 7.5, 8.0, 0.0.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.1f", score)
}

// ScoreGauge renders the circular score gauge. It returns "" when score is
// nil or not a number.
func ScoreGauge(score *float64) string {
	r, ok := gauge.Read(score)
	if !ok {
		return ""
	}

	lit := FilledSegments(r.Fill)
	fg := TierColor(r.Tier)
	on := lipgloss.NewStyle().Foreground(fg).Render(strings.Repeat("█", ringCellW))
	off := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", ringCellW))

	grid := make([][]string, ringRows)
	for i := range grid {
		grid[i] = make([]string, ringCols)
	}
	for i, cell := range ringOrder {
		if i < lit {
			grid[cell[0]][cell[1]] = on
		} else {
			grid[cell[0]][cell[1]] = off
		}
	}

	innerW := (ringCols - 2) * ringCellW
	inner := []string{
		"",
		lipgloss.NewStyle().Foreground(fg).Bold(true).Render(FormatScore(r.Score)),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("/ 10"),
	}

	var b strings.Builder
	for row := 0; row < ringRows; row++ {
		if row > 0 {
			b.WriteString("\n")
		}
		if row == 0 || row == ringRows-1 {
			b.WriteString(strings.Join(grid[row], ""))
			continue
		}
		b.WriteString(grid[row][0])
		b.WriteString(lipgloss.PlaceHorizontal(innerW, lipgloss.Center, inner[row-1]))
		b.WriteString(grid[row][ringCols-1])
	}
	return b.String()
}
