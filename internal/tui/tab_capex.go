package tui

import (
	"strings"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/tui/components"
)

func (a App) renderCapExTab(cw int) string {
	s := a.summary
	months, capex := seriesOf(a.records, func(r model.Record) float64 { return r.CapEx })
	_, opex := seriesOf(a.records, func(r model.Record) float64 { return r.OpEx })
	labels := monthLabels(months)

	share := 0.0
	if total := s.TotalCapEx + s.TotalOpEx; total != 0 {
		share = s.TotalCapEx / total
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "CapEx", Value: cli.FormatMoney(s.TotalCapEx)},
		{Label: "OpEx", Value: cli.FormatMoney(s.TotalOpEx)},
		{Label: "CapEx share", Value: cli.FormatPercent(share)},
	}, cw))
	b.WriteString("\n")

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("CapEx by month", components.ColumnChart(capex, labels, components.CardInnerWidth(cw), 6), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("OpEx by month", components.ColumnChart(opex, labels, components.CardInnerWidth(cw), 6), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("CapEx by month", components.ColumnChart(capex, labels, components.CardInnerWidth(halves[0]), 8), halves[0]),
			components.ContentCard("OpEx by month", components.ColumnChart(opex, labels, components.CardInnerWidth(halves[1]), 8), halves[1]),
		}))
	}
	b.WriteString("\n")

	recs := tail(a.records, varianceRows)
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rowShare := 0.0
		if total := r.CapEx + r.OpEx; total != 0 {
			rowShare = r.CapEx / total
		}
		rows[i] = []string{cli.FormatMonth(r.Month), cli.FormatMoney(r.CapEx), cli.FormatMoney(r.OpEx), cli.FormatPercent(rowShare)}
	}
	b.WriteString(components.ContentCard("CapEx vs. OpEx",
		renderGrid([]string{"Month", "CapEx", "OpEx", "CapEx share"}, rows, nil), cw))
	return b.String()
}
