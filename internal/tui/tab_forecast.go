package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
	"github.com/theirongolddev/pvmdash/internal/tui/components"
	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

const maxForecastPeriods = 24

func (a App) updateForecastKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.metric++
	case "k", "up":
		a.metric--
	case "+", "=":
		a.periods = min(a.periods+1, maxForecastPeriods)
	case "-":
		a.periods = max(a.periods-1, 1)
	default:
		return a, nil, false
	}
	a.runForecast()
	return a, nil, true
}

func (a App) renderForecastTab(cw int) string {
	t := theme.Active
	name := currentKPI(a.metric)

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	names := pipeline.KPINames()
	idx := ((a.metric % len(names)) + len(names)) % len(names)
	picker := muted.Render(fmt.Sprintf("KPI %d/%d  [j/k] change  [+/-] months  axis: %s", idx+1, len(names), a.dash.Axis()))

	if a.fcErr != nil {
		return components.ContentCard("Forecast: "+name, picker, cw) + "\n" + a.renderError(cw, a.fcErr)
	}

	kpi, _ := pipeline.LookupKPI(name)
	history := pipeline.Series(a.records, kpi)
	fc := a.forecast

	months := make([]time.Time, 0, len(history)+len(fc.Points))
	vals := make([]float64, 0, len(history)+len(fc.Points))
	for _, p := range history {
		months = append(months, p.Month)
		vals = append(vals, p.Value)
	}
	for _, p := range fc.Points {
		months = append(months, p.Month)
		vals = append(vals, p.Predicted)
	}
	// leave room for the projection when the history is long
	keep := max(components.CardInnerWidth(cw)/3, len(fc.Points)+2)
	months, vals = tail(months, keep), tail(vals, keep)

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Slope per " + string(a.dash.Axis()), Value: formatKPI(name, fc.Fit.Slope), Sign: fc.Fit.Slope},
		{Label: "Intercept", Value: formatKPI(name, fc.Fit.Intercept)},
		{Label: "R²", Value: fmt.Sprintf("%.3f", fc.Fit.RSquared)},
		{Label: "Points", Value: cli.FormatNumber(int64(fc.Fit.Points))},
	}, cw))
	b.WriteString("\n")

	chart := components.ColumnChart(vals, monthLabels(months), components.CardInnerWidth(cw), 8)
	b.WriteString(components.ContentCard(fmt.Sprintf("Forecast: %s (history + next %d months)", name, len(fc.Points)),
		chart+"\n\n"+picker, cw))
	b.WriteString("\n")

	rows := make([][]string, len(fc.Points))
	for i, p := range fc.Points {
		rows[i] = []string{cli.FormatMonth(p.Month), formatKPI(name, p.Predicted)}
	}
	b.WriteString(components.ContentCard("Projected",
		renderGrid([]string{"Month", "Predicted"}, rows, func(_, col int) lipgloss.Color {
			if col == 1 {
				return t.AccentBright
			}
			return ""
		}), cw))
	return b.String()
}
