package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
)

var capexCmd = &cobra.Command{
	Use:   "capex",
	Short: "CapEx vs. OpEx per month",
	RunE:  runCapex,
}

func init() {
	rootCmd.AddCommand(capexCmd)
}

func runCapex(_ *cobra.Command, _ []string) error {
	_, sel, recs, err := loadSelection()
	if err != nil {
		return err
	}

	printHeader("CAPEX vs OPEX", sel)

	var totCapex, totOpex float64
	rows := make([][]string, 0, len(recs)+2)
	for _, r := range recs {
		totCapex += r.CapEx
		totOpex += r.OpEx
		rows = append(rows, []string{
			cli.FormatMonth(r.Month),
			cli.FormatMoney(r.CapEx),
			cli.FormatMoney(r.OpEx),
			cli.FormatMoney(r.CapEx + r.OpEx),
			capexShare(r.CapEx, r.OpEx),
		})
	}
	rows = append(rows, []string{cli.Separator})
	rows = append(rows, []string{"TOTAL",
		cli.FormatMoney(totCapex),
		cli.FormatMoney(totOpex),
		cli.FormatMoney(totCapex + totOpex),
		capexShare(totCapex, totOpex),
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "CapEx", "OpEx", "Total", "CapEx Share"},
		Rows:    rows,
	}))
	return nil
}

func capexShare(capex, opex float64) string {
	if capex+opex == 0 {
		return "-"
	}
	return cli.FormatPercent(capex / (capex + opex))
}
