package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
)

var pvmCmd = &cobra.Command{
	Use:   "pvm",
	Short: "Price-volume-mix indices and impact per month",
	RunE:  runPVM,
}

func init() {
	rootCmd.AddCommand(pvmCmd)
}

func runPVM(_ *cobra.Command, _ []string) error {
	_, sel, recs, err := loadSelection()
	if err != nil {
		return err
	}

	printHeader("PRICE-VOLUME-MIX", sel)

	var total float64
	impacts := make([]float64, len(recs))
	rows := make([][]string, 0, len(recs)+2)
	for i, r := range recs {
		impacts[i] = r.Derived.PVMImpact
		total += r.Derived.PVMImpact
		rows = append(rows, []string{
			cli.FormatMonth(r.Month),
			cli.FormatIndex(r.PriceIndex),
			cli.FormatIndex(r.VolumeIndex),
			cli.FormatIndex(r.MixIndex),
			cli.FormatMoney(r.PlannedRevenue),
			cli.FormatSignedMoney(r.Derived.PVMImpact),
		})
	}
	rows = append(rows, []string{cli.Separator})
	rows = append(rows, []string{"TOTAL", "", "", "", "", cli.FormatSignedMoney(total)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Price", "Volume", "Mix", "Planned Revenue", "PVM Impact"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Printf("  PVM impact  %s\n", cli.RenderSparkline(impacts))
	fmt.Println(cli.RenderNote("impact = planned revenue x ((price-1) + (volume-1) + (mix-1))"))
	return nil
}
