package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/report"
)

var flagReportOut string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a Markdown or HTML report of KPIs, scenario and forecasts",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&flagReportOut, "out", "o", "-", "Report file (.md or .html); '-' prints Markdown")
	reportCmd.Flags().IntVarP(&flagPeriods, "periods", "k", 0, "Months to forecast (default from config, 3)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	d, sel, recs, err := loadSelection()
	if err != nil {
		return err
	}
	sum, err := d.Summary(sel)
	if err != nil {
		return err
	}
	tbl, err := d.Table()
	if err != nil {
		return err
	}

	p := scenarioParams(cmd)
	scen, err := d.Scenario(sel, p)
	if err != nil {
		return err
	}

	in := report.Input{
		Source:    tbl.Source(),
		Selection: sel,
		Summary:   sum,
		Records:   recs,
		Params:    p,
		Scenario:  scen,
		Generated: time.Now(),
	}
	for _, metric := range defaultForecastMetrics {
		fc, err := d.Forecast(sel, metric, forecastPeriods())
		if errors.Is(err, model.ErrInsufficientData) {
			slog.Info("forecast skipped", "metric", metric, "error", err)
			continue
		}
		if err != nil {
			return err
		}
		in.Forecasts = append(in.Forecasts, fc)
	}

	var w io.Writer = os.Stdout
	path := flagReportOut
	if path != "-" {
		f, err := os.Create(path) //nolint:gosec // user-supplied output path
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	} else {
		path = ""
	}

	if err := report.Write(w, path, in); err != nil {
		return err
	}
	if !flagQuiet && path != "" {
		fmt.Fprintf(os.Stderr, "  Report written to %s\n", path)
	}
	return nil
}
