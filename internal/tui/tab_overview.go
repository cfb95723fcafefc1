package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/tui/components"
	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	s := a.summary
	var b strings.Builder

	headline := []components.Metric{
		{
			Label: "Profit",
			Value: cli.FormatMoney(s.TotalProfit),
			Delta: cli.FormatSignedMoney(s.TotalProfitVariance) + " vs plan",
			Sign:  s.TotalProfitVariance,
		},
		{
			Label: "Revenue",
			Value: cli.FormatMoney(s.ActualRevenue),
			Delta: cli.FormatDelta(s.ActualRevenue, s.PlannedRevenue) + " vs plan",
			Sign:  s.RevenueVariance,
		},
		{
			Label: "Cost",
			Value: cli.FormatMoney(s.ActualCost),
			Delta: cli.FormatDelta(s.ActualCost, s.PlannedCost) + " vs plan",
			Sign:  -s.CostVariance, // overspend is unfavorable
		},
		{
			Label: "PVM impact",
			Value: cli.FormatSignedMoney(s.TotalPVMImpact),
			Delta: "price × volume × mix",
			Sign:  s.TotalPVMImpact,
		},
	}
	secondary := []components.Metric{
		{Label: "CapEx", Value: cli.FormatMoney(s.TotalCapEx)},
		{Label: "OpEx", Value: cli.FormatMoney(s.TotalOpEx)},
		{Label: "Avg FX rate", Value: cli.FormatIndex(s.AvgFXRate)},
		{Label: "Avg headcount", Value: cli.FormatNumber(int64(s.AvgHeadcount))},
	}

	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(headline, cw))
		b.WriteString("\n")
	} else {
		b.WriteString(components.MetricCardRow(append(headline, secondary...), cw))
		b.WriteString("\n")
	}

	months, profit := seriesOf(a.records, func(r model.Record) float64 { return r.Derived.Profit })
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Monthly profit (%s to %s, %d rows)", cli.FormatMonth(s.FirstMonth), cli.FormatMonth(s.LastMonth), s.Rows),
		components.ColumnChart(profit, monthLabels(months), components.CardInnerWidth(cw), 10),
		cw,
	))
	b.WriteString("\n")

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rangeStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	trends := []struct {
		label string
		color lipgloss.Color
		value func(model.Record) float64
	}{
		{"Actual revenue", t.Blue, func(r model.Record) float64 { return r.ActualRevenue }},
		{"Actual cost", t.Orange, func(r model.Record) float64 { return r.ActualCost }},
		{"Profit variance", t.Accent, func(r model.Record) float64 { return r.Derived.ProfitVariance }},
		{"PVM impact", t.Magenta, func(r model.Record) float64 { return r.Derived.PVMImpact }},
	}
	sparkW := max(components.CardInnerWidth(cw)-40, 10)
	var trendBody strings.Builder
	for i, tr := range trends {
		_, vals := seriesOf(a.records, tr.value)
		vals = tail(vals, sparkW)
		lo, hi := bounds(vals)
		trendBody.WriteString(labelStyle.Render(fmt.Sprintf("%-16s", tr.label)))
		trendBody.WriteString(components.Sparkline(vals, tr.color))
		trendBody.WriteString(space.Render("  "))
		trendBody.WriteString(rangeStyle.Render(cli.FormatMoneyShort(lo) + " … " + cli.FormatMoneyShort(hi)))
		if i < len(trends)-1 {
			trendBody.WriteString("\n")
		}
	}
	b.WriteString(components.ContentCard("Trends", trendBody.String(), cw))

	if a.isCompactLayout() {
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(secondary, cw))
	}
	return b.String()
}

// seriesOf extracts the month axis and one value per record.
func seriesOf(records []model.Record, f func(model.Record) float64) ([]time.Time, []float64) {
	months := make([]time.Time, len(records))
	vals := make([]float64, len(records))
	for i, r := range records {
		months[i] = r.Month
		vals[i] = f(r)
	}
	return months, vals
}

func bounds(vals []float64) (lo, hi float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
