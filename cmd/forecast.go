package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
)

var (
	flagPeriods int
	flagMetrics []string
)

var defaultForecastMetrics = []string{"Profit", "PVM_Impact"}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Linear trend forecast of profit and PVM impact",
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().IntVarP(&flagPeriods, "periods", "k", 0, "Months to forecast (default from config, 3)")
	forecastCmd.Flags().StringSliceVar(&flagMetrics, "metric", nil, "KPI to forecast, repeatable (default Profit,PVM_Impact)")
	rootCmd.AddCommand(forecastCmd)
}

func forecastPeriods() int {
	if flagPeriods != 0 {
		return flagPeriods
	}
	return appCfg.Forecast.Periods
}

func runForecast(_ *cobra.Command, _ []string) error {
	d, sel, recs, err := loadSelection()
	if err != nil {
		return err
	}

	metrics := flagMetrics
	if len(metrics) == 0 {
		metrics = defaultForecastMetrics
	}
	k := forecastPeriods()

	printHeader(fmt.Sprintf("FORECAST  next %d months  (%s axis)", k, d.Axis()), sel)

	for _, name := range metrics {
		kpi, err := pipeline.LookupKPI(name)
		if err != nil {
			return err
		}
		fc, err := d.Forecast(sel, kpi.Name, k)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(recs)+len(fc.Points)+1)
		for _, p := range pipeline.Series(recs, kpi) {
			rows = append(rows, []string{cli.FormatMonth(p.Month), "actual", formatKPI(kpi, p.Value)})
		}
		rows = append(rows, []string{cli.Separator})
		for _, p := range fc.Points {
			rows = append(rows, []string{cli.FormatMonth(p.Month), "forecast", formatKPI(kpi, p.Predicted)})
		}

		fmt.Print(cli.RenderTable(cli.Table{
			Title:   kpi.Name,
			Headers: []string{"Month", "Kind", "Value"},
			Rows:    rows,
		}))
		fmt.Println(cli.RenderNote(fmt.Sprintf("slope %s per %s, R² %.3f, %d points",
			formatKPI(kpi, fc.Fit.Slope), d.Axis(), fc.Fit.RSquared, fc.Fit.Points)))
		fmt.Println()
	}
	return nil
}

// formatKPI renders money KPIs as currency and the rest as plain numbers.
func formatKPI(k pipeline.KPI, v float64) string {
	if k.Money {
		return cli.FormatMoney(v)
	}
	return cli.FormatIndex(v)
}
