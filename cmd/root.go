package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/config"
	"github.com/theirongolddev/pvmdash/internal/logging"
	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
	"github.com/theirongolddev/pvmdash/internal/source"
)

var (
	flagData      string
	flagRegion    string
	flagBU        string
	flagProject   string
	flagStatus    string
	flagQuiet     bool
	flagLogLevel  string
	flagLogFormat string
)

// appCfg is the effective configuration, loaded before every command runs.
var appCfg = config.DefaultConfig()

var rootCmd = &cobra.Command{
	Use:               "pvmdash",
	Short:             "FP&A variance, PVM and forecast dashboard",
	Long:              "Analyze planned vs. actual revenue and cost: variances, price-volume-mix impact, what-if scenarios and linear trend forecasts.",
	SilenceUsage:      true,
	PersistentPreRunE: setupRun,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagData, "data", "f", "", "Input table (.csv, .tsv, .xlsx, .db)")
	rootCmd.PersistentFlags().StringVar(&flagRegion, "region", "", "Filter: region (default: first in data)")
	rootCmd.PersistentFlags().StringVar(&flagBU, "bu", "", "Filter: business unit (default: first in data)")
	rootCmd.PersistentFlags().StringVar(&flagProject, "project", "", "Filter: project (default: first in data)")
	rootCmd.PersistentFlags().StringVar(&flagStatus, "status", "", "Filter: status (default: first in data)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
}

// setupRun loads .env and the config file, then configures logging.
func setupRun(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load() // a missing .env is fine

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	appCfg = cfg

	level := appCfg.Log.Level
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	format := appCfg.Log.Format
	if flagLogFormat != "" {
		format = flagLogFormat
	}

	var w io.Writer = os.Stderr
	if cmd.Name() == tuiCmd.Name() {
		// the alternate screen owns the terminal
		w = io.Discard
	}
	if appCfg.Log.File != "" {
		f, err := logging.OpenFile(appCfg.Log.File)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		w = f
	}

	if _, err := logging.Setup(level, format, w); err != nil {
		return err
	}
	slog.Debug("config loaded", "path", config.Path(), "exists", config.Exists())
	return nil
}

// dataPath resolves the input table: --data, then PVMDASH_DATA, then config.
func dataPath() (string, error) {
	if flagData != "" {
		return flagData, nil
	}
	if p := config.DataPath(appCfg); p != "" {
		return p, nil
	}
	return "", errors.New("no input table: pass --data, set PVMDASH_DATA, or run `pvmdash setup`")
}

func newCache(path string, progressFn source.ProgressFunc) *pipeline.Cache {
	return pipeline.NewCache(path, source.Options{
		Sheet:      appCfg.Input.Sheet,
		Table:      appCfg.Input.Table,
		ProgressFn: progressFn,
	})
}

// loadDashboard is the shared data loading path used by all commands.
func loadDashboard() (*pipeline.Dashboard, error) {
	path, err := dataPath()
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	progressFn := func(current, total int) {
		if flagQuiet || total < 1000 {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("  Parsing rows"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(30),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(current)
	}

	d, err := pipeline.NewDashboard(newCache(path, progressFn), appCfg)
	if err != nil {
		return nil, err
	}
	tbl, err := d.Table()
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Loaded %s records from %s\n",
			cli.FormatNumber(int64(tbl.Len())), filepath.Base(path))
	}
	return d, nil
}

// flagSelection is the selection typed on the command line; empty fields
// are resolved to the first value of each dimension.
func flagSelection() model.Selection {
	return model.Selection{
		Region:       flagRegion,
		BusinessUnit: flagBU,
		Project:      flagProject,
		Status:       flagStatus,
	}
}

// loadSelection loads the dataset and filters it to the resolved selection.
func loadSelection() (*pipeline.Dashboard, model.Selection, []model.Record, error) {
	d, err := loadDashboard()
	if err != nil {
		return nil, model.Selection{}, nil, err
	}
	sel, err := d.Resolve(flagSelection())
	if err != nil {
		return nil, sel, nil, err
	}
	recs, err := d.Filtered(sel)
	if err != nil {
		return nil, sel, nil, err
	}
	return d, sel, recs, nil
}

// printHeader prints a title box and the active selection.
func printHeader(title string, sel model.Selection) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println(cli.RenderNote(sel.String()))
	fmt.Println()
}
