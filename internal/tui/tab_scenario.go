package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/config"
	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
	"github.com/theirongolddev/pvmdash/internal/tui/components"
	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

// Slider steps, as fractions.
const (
	scenarioStep    = 0.005
	scenarioBigStep = 0.05
)

// scenarioState tracks which ratio slider has focus.
type scenarioState struct {
	cursor int
}

var ratioLabels = map[string]string{
	config.RatioRevenueGrowth:       "Revenue growth",
	config.RatioCostInflation:       "Cost inflation",
	config.RatioFXAdjustment:        "FX adjustment",
	config.RatioHeadcountAdjustment: "Headcount",
}

func (a App) updateScenarioKey(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "j", "down":
		a.scen.cursor = min(a.scen.cursor+1, len(config.Ratios)-1)
	case "k", "up":
		a.scen.cursor = max(a.scen.cursor-1, 0)
	case "left", "h":
		a.nudgeRatio(-scenarioStep)
	case "right", "l":
		a.nudgeRatio(scenarioStep)
	case "H":
		a.nudgeRatio(-scenarioBigStep)
	case "L":
		a.nudgeRatio(scenarioBigStep)
	case "0":
		a.params = pipeline.ParamsFromConfig(a.cfg.Scenario)
		a.runScenario()
	default:
		return a, nil, false
	}
	return a, nil, true
}

// nudgeRatio moves the focused ratio by delta, kept within its bounds.
func (a *App) nudgeRatio(delta float64) {
	name := config.Ratios[a.scen.cursor]
	// snap to the step grid first; an off-grid bound still wins
	v := math.Round((a.params.Ratio(name)+delta)/scenarioStep) * scenarioStep
	if b, ok := config.LookupBounds(a.dash.ScenarioConfig(), name); ok {
		v = min(max(v, b.Min), b.Max)
	}
	a.params = a.params.WithRatio(name, v)
	a.runScenario()
}

func (a App) renderScenarioTab(cw int) string {
	t := theme.Active
	cfg := a.dash.ScenarioConfig()

	inner := components.CardInnerWidth(cw)
	trackW := max(min(inner-46, 50), 10)

	var sliders strings.Builder
	for i, name := range config.Ratios {
		b, _ := config.LookupBounds(cfg, name)
		v := a.params.Ratio(name)
		sliders.WriteString(components.Slider(ratioLabels[name], cli.FormatRatio(v), v, b.Min, b.Max, 16, trackW, i == a.scen.cursor))
		if i < len(config.Ratios)-1 {
			sliders.WriteString("\n")
		}
	}
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	sliders.WriteString("\n\n")
	sliders.WriteString(muted.Render("[j/k] ratio  [←/→] ±0.5pt  [H/L] ±5pt  [0] reset"))

	var b strings.Builder
	b.WriteString(components.FocusCard("What-if ratios", sliders.String(), cw))
	b.WriteString("\n")

	if a.scenErr != nil {
		b.WriteString(a.renderError(cw, a.scenErr))
		return b.String()
	}

	var base, scen float64
	for _, p := range a.scenario {
		base += p.Profit
		scen += p.ScenarioProfit
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Baseline profit", Value: cli.FormatMoney(base)},
		{Label: "Scenario profit", Value: cli.FormatMoney(scen), Sign: scen - base},
		{Label: "Change", Value: cli.FormatDelta(scen, base), Sign: scen - base},
	}, cw))
	b.WriteString("\n")

	months, vals := scenarioSeries(a.scenario)
	chart := components.ColumnChart(vals, monthLabels(months), inner, 8)
	if u := a.params.Unapplied(); len(u) > 0 {
		warn := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)
		chart += "\n\n" + warn.Render(strings.Join(u, ", ")+" accepted but not applied to the simulation")
	}
	b.WriteString(components.ContentCard(fmt.Sprintf("Scenario profit by month (revenue %s, cost %s)",
		cli.FormatRatio(a.params.RevenueGrowth), cli.FormatRatio(a.params.CostInflation)), chart, cw))
	return b.String()
}

func scenarioSeries(points []model.ScenarioPoint) ([]time.Time, []float64) {
	months := make([]time.Time, len(points))
	vals := make([]float64, len(points))
	for i, p := range points {
		months[i] = p.Month
		vals[i] = p.ScenarioProfit
	}
	return months, vals
}
