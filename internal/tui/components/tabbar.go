package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

// Tab is one dashboard page.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // index of Key in Name, -1 when the key is not part of the name
}

// Tabs lists the pages in display order.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Variance", Key: 'v', KeyPos: 0},
	{Name: "PVM", Key: 'p', KeyPos: 0},
	{Name: "CapEx", Key: 'c', KeyPos: 0},
	{Name: "Scenario", Key: 's', KeyPos: 0},
	{Name: "Forecast", Key: 't', KeyPos: 7},
	{Name: "Export", Key: 'e', KeyPos: 0},
	{Name: "Settings", Key: 'x', KeyPos: -1},
}

// TabsPerRow is how many tabs share one line of the tab bar.
const TabsPerRow = 4

// TabVisualWidth is the rendered width of a tab, including its padding.
func TabVisualWidth(tab Tab, active bool) int {
	w := lipgloss.Width(tab.Name) + 2
	if active {
		return w
	}
	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		return w + 2 // brackets around the key letter
	}
	return w + 3 // "[x]" suffix
}

// RenderTabBar renders the tab bar as two rows with the active tab highlighted.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	bar := lipgloss.NewStyle().Background(t.Surface)
	activeStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true).Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dimKeyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	padStyle := lipgloss.NewStyle().Background(t.Surface)

	var rowParts [][]string
	for i, tab := range Tabs {
		if i%TabsPerRow == 0 {
			rowParts = append(rowParts, nil)
		}
		var rendered string
		switch {
		case i == activeIdx:
			rendered = activeStyle.Render(tab.Name)
		case tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name):
			rendered = padStyle.Render(" ") +
				inactiveStyle.Render(tab.Name[:tab.KeyPos]) +
				dimKeyStyle.Render("[") + keyStyle.Render(string(tab.Name[tab.KeyPos])) + dimKeyStyle.Render("]") +
				inactiveStyle.Render(tab.Name[tab.KeyPos+1:]) +
				padStyle.Render(" ")
		default:
			rendered = padStyle.Render(" ") +
				inactiveStyle.Render(tab.Name) +
				dimKeyStyle.Render("[") + keyStyle.Render(string(tab.Key)) + dimKeyStyle.Render("]") +
				padStyle.Render(" ")
		}
		rowParts[len(rowParts)-1] = append(rowParts[len(rowParts)-1], rendered)
	}

	rows := make([]string, len(rowParts))
	for i, parts := range rowParts {
		rows[i] = bar.Width(width).Render(strings.Join(parts, padStyle.Render(" ")))
	}
	return strings.Join(rows, "\n")
}

// TabIdxByKey returns the tab for a shortcut key, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
