package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/config"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
)

var (
	flagRevenueGrowth float64
	flagCostInflation float64
	flagFX            float64
	flagHeadcount     float64
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "What-if profit under revenue growth and cost inflation",
	Long: "Simulate profit with actual revenue and cost scaled by the given percentages.\n" +
		"Values are percent: --revenue-growth 5 means +5%. Unset flags use the configured defaults.",
	RunE: runScenario,
}

func init() {
	scenarioCmd.Flags().Float64Var(&flagRevenueGrowth, "revenue-growth", 0, "Revenue growth in percent")
	scenarioCmd.Flags().Float64Var(&flagCostInflation, "cost-inflation", 0, "Cost inflation in percent")
	scenarioCmd.Flags().Float64Var(&flagFX, "fx", 0, "FX adjustment in percent (accepted, not yet applied)")
	scenarioCmd.Flags().Float64Var(&flagHeadcount, "headcount", 0, "Headcount adjustment in percent (accepted, not yet applied)")
	rootCmd.AddCommand(scenarioCmd)
}

// scenarioParams starts from the configured ratios and applies any flag the
// user set, converting percent to fractions.
func scenarioParams(cmd *cobra.Command) pipeline.Params {
	p := pipeline.ParamsFromConfig(appCfg.Scenario)
	set := map[string]struct {
		flag string
		v    float64
	}{
		config.RatioRevenueGrowth:       {"revenue-growth", flagRevenueGrowth},
		config.RatioCostInflation:       {"cost-inflation", flagCostInflation},
		config.RatioFXAdjustment:        {"fx", flagFX},
		config.RatioHeadcountAdjustment: {"headcount", flagHeadcount},
	}
	for ratio, f := range set {
		if cmd.Flags().Changed(f.flag) {
			p = p.WithRatio(ratio, f.v/100)
		}
	}
	return p
}

func runScenario(cmd *cobra.Command, _ []string) error {
	d, sel, _, err := loadSelection()
	if err != nil {
		return err
	}

	p := scenarioParams(cmd)
	points, err := d.Scenario(sel, p)
	if err != nil {
		return err
	}

	printHeader(fmt.Sprintf("SCENARIO  revenue %s  cost %s",
		cli.FormatRatio(p.RevenueGrowth), cli.FormatRatio(p.CostInflation)), sel)

	var base, scen float64
	rows := make([][]string, 0, len(points)+2)
	for _, sp := range points {
		base += sp.Profit
		scen += sp.ScenarioProfit
		rows = append(rows, []string{
			cli.FormatMonth(sp.Month),
			cli.FormatMoney(sp.Profit),
			cli.FormatMoney(sp.ScenarioRevenue),
			cli.FormatMoney(sp.ScenarioCost),
			cli.FormatMoney(sp.ScenarioProfit),
			cli.FormatDelta(sp.ScenarioProfit, sp.Profit),
		})
	}
	rows = append(rows, []string{cli.Separator})
	rows = append(rows, []string{"TOTAL", cli.FormatMoney(base), "", "", cli.FormatMoney(scen), cli.FormatDelta(scen, base)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Profit", "Scen. Revenue", "Scen. Cost", "Scen. Profit", "Delta"},
		Rows:    rows,
	}))

	if u := p.Unapplied(); len(u) > 0 {
		fmt.Println(cli.RenderWarning(strings.Join(u, ", ") + " accepted but not applied to the simulation"))
	}
	return nil
}
