package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline KPIs for the selected project",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	d, sel, _, err := loadSelection()
	if err != nil {
		return err
	}
	s, err := d.Summary(sel)
	if err != nil {
		return err
	}

	printHeader(fmt.Sprintf("FP&A SUMMARY  %s - %s",
		cli.FormatMonth(s.FirstMonth), cli.FormatMonth(s.LastMonth)), sel)

	rows := [][]string{
		{"Total Profit", cli.FormatMoney(s.TotalProfit)},
		{"Planned Profit", cli.FormatMoney(s.TotalPlannedProfit)},
		{"Profit Variance", cli.FormatSignedMoney(s.TotalProfitVariance)},
		{cli.Separator},
		{"Planned Revenue", cli.FormatMoney(s.PlannedRevenue)},
		{"Actual Revenue", cli.FormatMoney(s.ActualRevenue)},
		{"Revenue Variance", cli.FormatSignedMoney(s.RevenueVariance)},
		{"Planned Cost", cli.FormatMoney(s.PlannedCost)},
		{"Actual Cost", cli.FormatMoney(s.ActualCost)},
		{"Cost Variance", cli.FormatSignedMoney(s.CostVariance)},
		{cli.Separator},
		{"PVM Impact", cli.FormatSignedMoney(s.TotalPVMImpact)},
		{"CapEx", cli.FormatMoney(s.TotalCapEx)},
		{"OpEx", cli.FormatMoney(s.TotalOpEx)},
		{cli.Separator},
		{"Avg FX Rate", fmt.Sprintf("%.3f", s.AvgFXRate)},
		{"Avg Headcount", cli.FormatNumber(int64(s.AvgHeadcount))},
		{"Months", cli.FormatNumber(int64(s.Rows))},
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	return nil
}
