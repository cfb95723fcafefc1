package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/model"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List the selectable values of each filter",
	RunE:  runOptions,
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}

var dimensionFlags = map[string]string{
	model.DimRegion:       "--region",
	model.DimBusinessUnit: "--bu",
	model.DimProject:      "--project",
	model.DimStatus:       "--status",
}

func runOptions(_ *cobra.Command, _ []string) error {
	d, err := loadDashboard()
	if err != nil {
		return err
	}
	opts, err := d.Options()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("FILTER OPTIONS"))
	fmt.Println()

	rows := make([][]string, 0, len(model.Dimensions))
	for _, dim := range model.Dimensions {
		values := opts.Values(dim)
		rows = append(rows, []string{
			dimensionFlags[dim],
			cli.FormatNumber(int64(len(values))),
			strings.Join(values, ", "),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Flag", "Count", "Values"},
		Rows:    rows,
	}))
	fmt.Println(cli.RenderNote("Unset filters default to the first value listed."))
	return nil
}
