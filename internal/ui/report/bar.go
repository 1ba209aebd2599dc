package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/alme-learn/alme/internal/ui/theme"
)

// Bar renders a horizontal bar for a 0-100 percentage.
func Bar(percent float64, width int, showPercent bool) string {
	if width < 4 {
		width = 4
	}
	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	out := theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", width-filled))
	if showPercent {
		out += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf(" %3d%%", int(percent)))
	}
	return out
}
