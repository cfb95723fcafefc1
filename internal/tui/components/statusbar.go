package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

// RenderStatusBar renders the bottom bar: key hints on the left, data source
// on the right and a transient message (flash) in between.
func RenderStatusBar(width int, source, flash string, busy bool) string {
	t := theme.Active

	style := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	flashStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	left := " [?]help  [f]ilter  [r]eload  [q]uit"
	if busy {
		left += "  reloading..."
	}
	right := ""
	if source != "" {
		right = source + " "
	}
	mid := ""
	if flash != "" {
		mid = "  " + flash
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(mid) - lipgloss.Width(right)
	if padding < 0 {
		// drop the source first, then clip the flash
		right = ""
		padding = width - lipgloss.Width(left) - lipgloss.Width(mid)
		if padding < 0 {
			mid = ""
			padding = max(width-lipgloss.Width(left), 0)
		}
	}

	return style.Render(left) + flashStyle.Render(mid) +
		style.Render(strings.Repeat(" ", padding)) + style.Render(right)
}
