package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

// gridStyle colors one cell; nil means primary text.
type gridStyle func(row, col int) lipgloss.Color

// renderGrid lays out a header plus rows. The first column is left-aligned,
// the rest right-aligned. A row holding a single "---" cell becomes a rule.
func renderGrid(headers []string, rows [][]string, color gridStyle) string {
	t := theme.Active

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(c))
			}
		}
	}

	total := 0
	for _, w := range widths {
		total += w + 2
	}

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	ruleStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	cellText := func(c string, i int) string {
		pad := strings.Repeat(" ", max(widths[i]-lipgloss.Width(c), 0))
		if i == 0 {
			return c + pad
		}
		return pad + c
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(headStyle.Render(cellText(h, i)))
		b.WriteString(space.Render("  "))
	}
	b.WriteString("\n")
	b.WriteString(ruleStyle.Render(strings.Repeat("─", total)))

	for r, row := range rows {
		b.WriteString("\n")
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(ruleStyle.Render(strings.Repeat("─", total)))
			continue
		}
		for i := range headers {
			c := ""
			if i < len(row) {
				c = row[i]
			}
			fg := t.TextPrimary
			if color != nil {
				if col := color(r, i); col != "" {
					fg = col
				}
			}
			b.WriteString(lipgloss.NewStyle().Foreground(fg).Background(t.Surface).Render(cellText(c, i)))
			b.WriteString(space.Render("  "))
		}
	}
	return b.String()
}

// tail keeps the last n items of s; budgets table rows to the screen.
func tail[T any](s []T, n int) []T {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
