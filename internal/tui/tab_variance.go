package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/tui/components"
	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

// varianceRows caps the month table so the chart stays on screen.
const varianceRows = 12

func (a App) renderVarianceTab(cw int) string {
	t := theme.Active
	s := a.summary
	recs := tail(a.records, varianceRows)

	rows := make([][]string, 0, len(recs)+2)
	signs := make([][3]float64, 0, len(recs)+2)
	for _, r := range recs {
		d := r.Derived
		rows = append(rows, []string{
			cli.FormatMonth(r.Month),
			cli.FormatSignedMoney(d.RevenueVariance),
			cli.FormatSignedMoney(d.CostVariance),
			cli.FormatSignedMoney(d.ProfitVariance),
		})
		signs = append(signs, [3]float64{d.RevenueVariance, -d.CostVariance, d.ProfitVariance})
	}
	rows = append(rows, []string{cli.Separator})
	rows = append(rows, []string{
		"Total",
		cli.FormatSignedMoney(s.RevenueVariance),
		cli.FormatSignedMoney(s.CostVariance),
		cli.FormatSignedMoney(s.TotalProfitVariance),
	})
	signs = append(signs, [3]float64{}, [3]float64{s.RevenueVariance, -s.CostVariance, s.TotalProfitVariance})

	grid := renderGrid(
		[]string{"Month", "Revenue var.", "Cost var.", "Profit var."},
		rows,
		func(row, col int) lipgloss.Color {
			if col == 0 || row >= len(signs) {
				return ""
			}
			return t.Signed(signs[row][col-1])
		},
	)

	bars := make([]components.HBar, len(recs))
	for i, r := range recs {
		bars[i] = components.HBar{
			Label: cli.FormatMonth(r.Month),
			Value: r.Derived.ProfitVariance,
			Text:  cli.FormatMoneyShort(r.Derived.ProfitVariance),
		}
	}

	title := fmt.Sprintf("Variance vs plan (last %d months)", len(recs))
	if a.isCompactLayout() {
		var b strings.Builder
		b.WriteString(components.ContentCard(title, grid, cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Profit variance", components.HBarChart(bars, components.CardInnerWidth(cw)), cw))
		return b.String()
	}

	halves := components.LayoutRow(cw, 2)
	return components.CardRow([]string{
		components.ContentCard(title, grid, halves[0]),
		components.ContentCard("Profit variance", components.HBarChart(bars, components.CardInnerWidth(halves[1])), halves[1]),
	})
}
