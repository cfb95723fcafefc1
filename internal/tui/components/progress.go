package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

// ProgressBar renders a load progress bar followed by its percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clamp01(pct)

	bar := progress.New(
		progress.WithSolidFill(string(t.Accent)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)
	return bar.ViewAs(pct) + space.Render(" ") + pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100))
}

// Slider renders a ratio within [lo, hi] as a labeled track. The focused
// slider gets a marker and the accent color; zero sits where it falls on the track.
func Slider(label, value string, v, lo, hi float64, labelW, trackW int, focused bool) string {
	t := theme.Active

	pct := 0.0
	if hi > lo {
		pct = (v - lo) / (hi - lo)
	}

	fill := t.TextMuted
	labelColor := t.TextMuted
	marker := "  "
	if focused {
		fill = t.Accent
		labelColor = t.AccentBright
		marker = "▸ "
	}

	bar := progress.New(
		progress.WithSolidFill(string(fill)),
		progress.WithWidth(trackW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.Border)

	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	labelStyle := lipgloss.NewStyle().Foreground(labelColor).Background(t.Surface).Bold(focused)
	boundStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.Signed(v)).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	b.WriteString(markerStyle.Render(marker))
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)))
	b.WriteString(boundStyle.Render(fmt.Sprintf("%6s ", fmt.Sprintf("%+.0f%%", lo*100))))
	b.WriteString(bar.ViewAs(clamp01(pct)))
	b.WriteString(boundStyle.Render(fmt.Sprintf(" %-6s", fmt.Sprintf("%+.0f%%", hi*100))))
	b.WriteString(space.Render(" "))
	b.WriteString(valueStyle.Render(value))
	return b.String()
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
