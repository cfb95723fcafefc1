package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Planned vs. actual revenue and profit per month",
	RunE:  runTrend,
}

func init() {
	rootCmd.AddCommand(trendCmd)
}

func runTrend(_ *cobra.Command, _ []string) error {
	_, sel, recs, err := loadSelection()
	if err != nil {
		return err
	}

	printHeader("REVENUE & PROFIT TREND", sel)

	rows := make([][]string, 0, len(recs))
	planned := make([]float64, len(recs))
	actual := make([]float64, len(recs))
	profit := make([]float64, len(recs))
	for i, r := range recs {
		planned[i] = r.PlannedRevenue
		actual[i] = r.ActualRevenue
		profit[i] = r.Derived.Profit
		rows = append(rows, []string{
			cli.FormatMonth(r.Month),
			cli.FormatMoney(r.PlannedRevenue),
			cli.FormatMoney(r.ActualRevenue),
			cli.FormatMoney(r.Derived.Profit),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Planned Revenue", "Actual Revenue", "Profit"},
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Printf("  Planned revenue  %s\n", cli.RenderSparkline(planned))
	fmt.Printf("  Actual revenue   %s\n", cli.RenderSparkline(actual))
	fmt.Printf("  Profit           %s\n", cli.RenderSparkline(profit))
	return nil
}
