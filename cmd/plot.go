package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/chart"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
)

var (
	flagPlotOut      string
	flagPlotMetric   string
	flagPlotScenario bool
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Save a trend + forecast (or scenario) chart as PNG, SVG or PDF",
	RunE:  runPlot,
}

func init() {
	plotCmd.Flags().StringVarP(&flagPlotOut, "out", "o", "trend.png", "Chart file (.png, .svg, .pdf)")
	plotCmd.Flags().StringVar(&flagPlotMetric, "metric", "Profit", "KPI to chart")
	plotCmd.Flags().IntVarP(&flagPeriods, "periods", "k", 0, "Months to forecast (default from config, 3)")
	plotCmd.Flags().BoolVar(&flagPlotScenario, "scenario", false, "Chart profit vs. scenario profit instead")
	plotCmd.Flags().Float64Var(&flagRevenueGrowth, "revenue-growth", 0, "Scenario revenue growth in percent")
	plotCmd.Flags().Float64Var(&flagCostInflation, "cost-inflation", 0, "Scenario cost inflation in percent")
	rootCmd.AddCommand(plotCmd)
}

func runPlot(cmd *cobra.Command, _ []string) error {
	d, sel, recs, err := loadSelection()
	if err != nil {
		return err
	}

	var fig chart.Figure
	if flagPlotScenario {
		p := scenarioParams(cmd)
		points, err := d.Scenario(sel, p)
		if err != nil {
			return err
		}
		fig = chart.Figure{
			Title:  "Scenario profit - " + sel.String(),
			YLabel: "EUR",
			Series: chart.ScenarioSeries(points),
		}
	} else {
		kpi, err := pipeline.LookupKPI(flagPlotMetric)
		if err != nil {
			return err
		}
		fc, err := d.Forecast(sel, kpi.Name, forecastPeriods())
		if err != nil {
			return err
		}
		fig = chart.Figure{
			Title:  kpi.Name + " - " + sel.String(),
			YLabel: kpi.Name,
			Series: chart.HistoryWithForecast(kpi.Name, pipeline.Series(recs, kpi), fc),
		}
	}

	if err := chart.Save(flagPlotOut, fig); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Chart saved to %s\n", flagPlotOut)
	}
	return nil
}
