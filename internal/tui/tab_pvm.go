package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/tui/components"
	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

func (a App) renderPVMTab(cw int) string {
	t := theme.Active
	recs := tail(a.records, varianceRows)

	rows := make([][]string, len(recs))
	bars := make([]components.HBar, len(recs))
	for i, r := range recs {
		rows[i] = []string{
			cli.FormatMonth(r.Month),
			cli.FormatIndex(r.PriceIndex),
			cli.FormatIndex(r.VolumeIndex),
			cli.FormatIndex(r.MixIndex),
			cli.FormatMoney(r.PlannedRevenue),
			cli.FormatSignedMoney(r.Derived.PVMImpact),
		}
		bars[i] = components.HBar{
			Label: cli.FormatMonth(r.Month),
			Value: r.Derived.PVMImpact,
			Text:  cli.FormatMoneyShort(r.Derived.PVMImpact),
		}
	}

	grid := renderGrid(
		[]string{"Month", "Price", "Volume", "Mix", "Planned revenue", "PVM impact"},
		rows,
		func(row, col int) lipgloss.Color {
			switch {
			case col == 5:
				return t.Signed(recs[row].Derived.PVMImpact)
			case col >= 1 && col <= 3:
				return t.TextMuted
			}
			return ""
		},
	)

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	note := muted.Render("Impact = planned revenue × ((price − 1) + (volume − 1) + (mix − 1)). An index of 1.000 has no effect.")

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total PVM impact", Value: cli.FormatSignedMoney(a.summary.TotalPVMImpact), Sign: a.summary.TotalPVMImpact},
		{Label: "Planned revenue", Value: cli.FormatMoney(a.summary.PlannedRevenue)},
	}, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Price, volume and mix", grid+"\n\n"+note, cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("PVM impact by month", components.HBarChart(bars, components.CardInnerWidth(cw)), cw))
	return b.String()
}
