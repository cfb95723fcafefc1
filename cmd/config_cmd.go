// Package cmd implements the pvmdash CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/config"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Input]")
	if p := config.DataPath(cfg); p != "" {
		fmt.Printf("    Path:  %s\n", p)
	} else {
		fmt.Println("    Path:  not configured")
	}
	if cfg.Input.Sheet != "" {
		fmt.Printf("    Sheet: %s\n", cfg.Input.Sheet)
	}
	if cfg.Input.Table != "" {
		fmt.Printf("    Table: %s\n", cfg.Input.Table)
	}
	fmt.Println()

	fmt.Println("  [Scenario]")
	p := pipeline.ParamsFromConfig(cfg.Scenario)
	for _, name := range config.Ratios {
		b, _ := config.LookupBounds(cfg.Scenario, name)
		fmt.Printf("    %-21s %7s   range [%s, %s]\n", name+":",
			cli.FormatRatio(p.Ratio(name)), cli.FormatRatio(b.Min), cli.FormatRatio(b.Max))
	}
	fmt.Println()

	fmt.Println("  [Forecast]")
	fmt.Printf("    Periods:   %d\n", cfg.Forecast.Periods)
	fmt.Printf("    Time axis: %s\n", cfg.Forecast.TimeAxis)
	fmt.Println()

	fmt.Println("  [Export]")
	kpis := cfg.Export.KPIs
	if len(kpis) == 0 {
		kpis = pipeline.DefaultExportKPIs
	}
	fmt.Printf("    KPIs: %s\n", strings.Join(kpis, ", "))
	fmt.Printf("    Path: %s\n", cfg.Export.Path)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	if cfg.Log.File != "" {
		fmt.Printf("    File:   %s\n", cfg.Log.File)
	}
	fmt.Println()

	fmt.Println("  Run `pvmdash setup` to reconfigure.")
	return nil
}
