package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

func TestSparklineScalesMinToMax(t *testing.T) {
	out := Sparkline([]float64{-10, 0, 10}, theme.Active.Accent)
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("sparkline should span lowest to highest block: %q", out)
	}
	if got := lipgloss.Width(out); got != 3 {
		t.Errorf("width = %d, want 3", got)
	}
}

func TestSparklineFlat(t *testing.T) {
	out := Sparkline([]float64{5, 5, 5}, theme.Active.Accent)
	if strings.Count(out, "▅") != 3 {
		t.Errorf("flat series should render mid blocks: %q", out)
	}
	if Sparkline(nil, theme.Active.Accent) != "" {
		t.Error("empty series should render empty")
	}
}

func TestColumnChartNegativeBelowAxis(t *testing.T) {
	out := ColumnChart([]float64{100, -50, 200}, []string{"Jan", "Feb", "Mar"}, 40, 8)
	lines := strings.Split(out, "\n")

	axis := -1
	for i, l := range lines {
		if strings.Contains(l, "┼") {
			axis = i
		}
	}
	if axis <= 0 || axis == len(lines)-1 {
		t.Fatalf("zero axis should sit between positive and negative rows:\n%s", out)
	}
	below := strings.Join(lines[axis+1:], "\n")
	if !strings.Contains(below, "█") {
		t.Errorf("negative value should render below the axis:\n%s", out)
	}
	if !strings.Contains(lines[len(lines)-1], "Jan") {
		t.Errorf("last line should carry month labels: %q", lines[len(lines)-1])
	}
}

func TestColumnChartNarrowFallsBackToSparkline(t *testing.T) {
	out := ColumnChart([]float64{1, 2, 3}, nil, 10, 8)
	if strings.Contains(out, "\n") {
		t.Errorf("narrow chart should be a one-line sparkline: %q", out)
	}
}

func TestHBarChart(t *testing.T) {
	out := HBarChart([]HBar{
		{Label: "Price", Value: 300, Text: "€300.00"},
		{Label: "Volume", Value: -150, Text: "-€150.00"},
	}, 60)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lipgloss.Width(lines[0]) != lipgloss.Width(lines[1]) {
		t.Errorf("bar lines differ in width: %d vs %d", lipgloss.Width(lines[0]), lipgloss.Width(lines[1]))
	}
	axis := strings.Index(lines[1], "│")
	if fill := strings.Index(lines[1], "█"); fill < 0 || fill > axis {
		t.Errorf("negative bar should extend left of the axis: %q", lines[1])
	}
}

func TestChartLabel(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{950, "950"},
		{1500, "1.5k"},
		{2000000, "2M"},
		{-2500, "-2.5k"},
		{0.25, "0.25"},
	}
	for _, tt := range tests {
		if got := ChartLabel(tt.in); got != tt.want {
			t.Errorf("ChartLabel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
