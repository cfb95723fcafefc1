package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/source"
	"github.com/theirongolddev/pvmdash/internal/store"
)

var flagConvertOut string

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Copy the full input table into a SQLite database",
	Long:  "Read the input (any supported format) and write every row to the records table of a SQLite file usable as --data.",
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&flagConvertOut, "out", "o", "records.db", "SQLite output path")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(_ *cobra.Command, _ []string) error {
	d, err := loadDashboard()
	if err != nil {
		return err
	}
	tbl, err := d.Table()
	if err != nil {
		return err
	}

	db, err := store.Open(flagConvertOut)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	table := appCfg.Input.Table
	if table == "" {
		table = source.DefaultTable
	}
	if err := db.SaveRecords(table, tbl.Records()); err != nil {
		return fmt.Errorf("writing %s: %w", flagConvertOut, err)
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %s records to %s (table %s)\n",
			cli.FormatNumber(int64(tbl.Len())), flagConvertOut, table)
	}
	return nil
}
