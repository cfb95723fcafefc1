package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values scaled between their min and max. A flat series
// renders as a row of mid-height blocks.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := len(sparkBlocks) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		buf.WriteRune(sparkBlocks[min(max(idx, 0), len(sparkBlocks)-1)])
	}

	return lipgloss.NewStyle().Foreground(color).Background(t.Surface).Render(buf.String())
}

// ColumnChart renders one column per value with a zero baseline, so
// negative months hang below the axis in red. height is the plot rows.
func ColumnChart(values []float64, labels []string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, theme.Active.Accent)
	}
	t := theme.Active

	hi, lo := 0.0, 0.0
	for _, v := range values {
		hi = math.Max(hi, v)
		lo = math.Min(lo, v)
	}
	if hi == lo {
		hi = 1
	}

	// Rows are split between the positive and negative side in proportion to range.
	span := hi - lo
	upRows := int(math.Round(float64(height) * hi / span))
	downRows := height - upRows
	if hi > 0 && upRows == 0 {
		upRows, downRows = 1, height-1
	}
	if lo < 0 && downRows == 0 {
		upRows, downRows = height-1, 1
	}
	rowValue := span / float64(height)

	yLabelW := max(len(ChartLabel(hi)), len(ChartLabel(lo)), 2) + 1
	chartW := width - yLabelW - 1
	n := len(values)
	barW := 1
	if n > 0 {
		barW = (chartW - (n - 1)) / n
	}
	if barW < 1 {
		// too many months for the width: keep the most recent ones
		keep := (chartW + 1) / 2
		values = values[n-keep:]
		if len(labels) == n {
			labels = labels[n-keep:]
		}
		n = keep
		barW = 1
	}
	barW = min(barW, 6)
	axisLen := n*barW + n - 1

	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)
	upStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	downStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	var b strings.Builder
	writeRow := func(label string, cell func(v float64) (string, lipgloss.Style)) {
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, label)))
		b.WriteString(axisStyle.Render("│"))
		for i, v := range values {
			if i > 0 {
				b.WriteString(space.Render(" "))
			}
			s, style := cell(v)
			b.WriteString(style.Render(strings.Repeat(s, barW)))
		}
		b.WriteString("\n")
	}

	for row := upRows; row >= 1; row-- {
		top := rowValue * float64(row)
		bottom := rowValue * float64(row-1)
		label := ""
		if row == upRows {
			label = ChartLabel(hi)
		}
		writeRow(label, func(v float64) (string, lipgloss.Style) {
			switch {
			case v >= top:
				return "█", upStyle
			case v > bottom:
				idx := int((v - bottom) / rowValue * float64(len(sparkBlocks)))
				return string(sparkBlocks[min(max(idx, 0), len(sparkBlocks)-1)]), upStyle
			}
			return " ", space
		})
	}

	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s", yLabelW, "0")))
	b.WriteString(axisStyle.Render("┼" + strings.Repeat("─", axisLen)))
	b.WriteString("\n")

	for row := 1; row <= downRows; row++ {
		bottom := -rowValue * float64(row)
		label := ""
		if row == downRows {
			label = ChartLabel(lo)
		}
		writeRow(label, func(v float64) (string, lipgloss.Style) {
			if v < 0 && v <= bottom+rowValue/2 {
				return "█", downStyle
			}
			return " ", space
		})
	}

	if len(labels) == n {
		buf := []byte(strings.Repeat(" ", axisLen))
		lastEnd := -1
		for i, lbl := range labels {
			pos := i * (barW + 1)
			end := min(pos+len(lbl), axisLen)
			if pos <= lastEnd || end-pos < len(lbl) {
				continue
			}
			copy(buf[pos:end], lbl)
			lastEnd = end
		}
		b.WriteString(space.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axisStyle.Render(strings.TrimRight(string(buf), " ")))
	}

	return strings.TrimRight(b.String(), "\n")
}

// HBar is one labeled horizontal bar.
type HBar struct {
	Label string
	Value float64
	Text  string // rendered value shown after the bar
}

// HBarChart renders signed horizontal bars around a center axis. Positive
// values extend right in green, negative values extend left in red.
func HBarChart(bars []HBar, width int) string {
	if len(bars) == 0 {
		return ""
	}
	t := theme.Active

	labelW, textW := 0, 0
	maxAbs := 0.0
	for _, bar := range bars {
		labelW = max(labelW, lipgloss.Width(bar.Label))
		textW = max(textW, lipgloss.Width(bar.Text))
		maxAbs = math.Max(maxAbs, math.Abs(bar.Value))
	}
	half := (width - labelW - textW - 3) / 2
	if half < 3 {
		half = 3
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for i, bar := range bars {
		n := 0
		if maxAbs > 0 {
			n = int(math.Round(math.Abs(bar.Value) / maxAbs * float64(half)))
		}
		fill := lipgloss.NewStyle().Foreground(t.Signed(bar.Value)).Background(t.Surface)
		left, right := strings.Repeat(" ", half), strings.Repeat(" ", half)
		if bar.Value < 0 {
			left = strings.Repeat(" ", half-n) + strings.Repeat("█", n)
		} else {
			right = strings.Repeat("█", n) + strings.Repeat(" ", half-n)
		}

		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelW, bar.Label)))
		b.WriteString(space.Render(" "))
		b.WriteString(fill.Render(left))
		b.WriteString(axisStyle.Render("│"))
		b.WriteString(fill.Render(right))
		b.WriteString(space.Render(" "))
		b.WriteString(fill.Render(fmt.Sprintf("%*s", textW, bar.Text)))
		if i < len(bars)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ChartLabel is a compact signed axis label: 1.5k, -2M, 0.25.
func ChartLabel(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	var s string
	switch {
	case v >= 1e9:
		s = trimZero(fmt.Sprintf("%.1f", v/1e9)) + "B"
	case v >= 1e6:
		s = trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		s = trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case v >= 1 || v == 0:
		s = fmt.Sprintf("%.0f", v)
	default:
		s = fmt.Sprintf("%.2f", v)
	}
	return sign + s
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}
