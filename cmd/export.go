package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/export"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
)

var (
	flagKPIs      []string
	flagExportOut string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export month plus selected KPI columns",
	Long: "Write the filtered rows as month plus KPI columns.\n" +
		"The format follows the output extension: .csv, .xlsx or .db/.sqlite; '-' writes CSV to stdout.",
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringSliceVar(&flagKPIs, "kpi", nil, "KPI column, repeatable or comma separated")
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output path (default from config)")
	rootCmd.AddCommand(exportCmd)
}

// exportKPIs resolves the selection: flags, then config, then the defaults.
func exportKPIs() []string {
	switch {
	case len(flagKPIs) > 0:
		return flagKPIs
	case len(appCfg.Export.KPIs) > 0:
		return appCfg.Export.KPIs
	}
	return pipeline.DefaultExportKPIs
}

func runExport(_ *cobra.Command, _ []string) error {
	_, sel, recs, err := loadSelection()
	if err != nil {
		return err
	}

	tbl, err := export.Build(recs, exportKPIs())
	if err != nil {
		return err
	}

	out := flagExportOut
	if out == "" {
		out = appCfg.Export.Path
	}
	if err := export.Write(out, tbl); err != nil {
		return fmt.Errorf("exporting to %s: %w", out, err)
	}

	if !flagQuiet && out != export.Stdout {
		fmt.Fprintf(os.Stderr, "  Exported %s rows x %d KPIs (%s) to %s\n",
			cli.FormatNumber(int64(tbl.Len())), len(tbl.Headers)-1, sel, out)
	}
	return nil
}
