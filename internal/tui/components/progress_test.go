package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSliderWidthStable(t *testing.T) {
	lo := Slider("Revenue growth", "-10.0%", -0.10, -0.10, 0.20, 16, 20, false)
	hi := Slider("Revenue growth", "+20.0%", 0.20, -0.10, 0.20, 16, 20, true)
	if lipgloss.Width(lo) != lipgloss.Width(hi) {
		t.Errorf("slider width changes with value: %d vs %d", lipgloss.Width(lo), lipgloss.Width(hi))
	}
	if !strings.Contains(hi, "▸") {
		t.Error("focused slider should show the marker")
	}
	if strings.Contains(lo, "▸") {
		t.Error("unfocused slider should not show the marker")
	}
}

func TestSliderBoundsLabels(t *testing.T) {
	out := stripped(Slider("FX", "+0.0%", 0, -0.10, 0.10, 4, 10, false))
	if !strings.Contains(out, "-10%") || !strings.Contains(out, "+10%") {
		t.Errorf("slider should show both bounds: %q", out)
	}
}

func TestProgressBarClamps(t *testing.T) {
	if !strings.Contains(stripped(ProgressBar(1.7, 10)), "100%") {
		t.Error("progress above 1 should clamp to 100%")
	}
	if !strings.Contains(stripped(ProgressBar(-1, 10)), "0%") {
		t.Error("negative progress should clamp to 0%")
	}
}
