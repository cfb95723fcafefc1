package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
)

var varianceCmd = &cobra.Command{
	Use:   "variance",
	Short: "Revenue, cost and profit variance per month",
	RunE:  runVariance,
}

func init() {
	rootCmd.AddCommand(varianceCmd)
}

func runVariance(_ *cobra.Command, _ []string) error {
	_, sel, recs, err := loadSelection()
	if err != nil {
		return err
	}

	printHeader("VARIANCE  actual - planned", sel)

	var maxAbs, totRev, totCost, totProfit float64
	for _, r := range recs {
		maxAbs = math.Max(maxAbs, math.Abs(r.Derived.ProfitVariance))
	}

	rows := make([][]string, 0, len(recs)+2)
	for _, r := range recs {
		totRev += r.Derived.RevenueVariance
		totCost += r.Derived.CostVariance
		totProfit += r.Derived.ProfitVariance
		rows = append(rows, []string{
			cli.FormatMonth(r.Month),
			cli.FormatSignedMoney(r.Derived.RevenueVariance),
			cli.FormatSignedMoney(r.Derived.CostVariance),
			cli.FormatSignedMoney(r.Derived.ProfitVariance),
			cli.RenderSignedBar(r.Derived.ProfitVariance, maxAbs, 8),
		})
	}
	rows = append(rows, []string{cli.Separator})
	rows = append(rows, []string{"TOTAL",
		cli.FormatSignedMoney(totRev),
		cli.FormatSignedMoney(totCost),
		cli.FormatSignedMoney(totProfit),
		"",
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Revenue Var.", "Cost Var.", "Profit Var.", "Profit Var."},
		Rows:    rows,
	}))
	return nil
}
