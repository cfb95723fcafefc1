package tui

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/pvmdash/internal/config"
	"github.com/theirongolddev/pvmdash/internal/export"
	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
	"github.com/theirongolddev/pvmdash/internal/source"
	"github.com/theirongolddev/pvmdash/internal/tui/theme"
)

// SetupValues are the answers collected by the setup form.
type SetupValues struct {
	DataPath string
	Theme    string
	Periods  string
	LogLevel string
}

// NewSetupValues seeds the setup answers from cfg.
func NewSetupValues(cfg config.Config) *SetupValues {
	return &SetupValues{
		DataPath: cfg.Input.Path,
		Theme:    cfg.Appearance.Theme,
		Periods:  strconv.Itoa(cfg.Forecast.Periods),
		LogLevel: cfg.Log.Level,
	}
}

// Apply copies the answers into cfg.
func (v *SetupValues) Apply(cfg *config.Config) {
	cfg.Input.Path = strings.TrimSpace(v.DataPath)
	cfg.Appearance.Theme = v.Theme
	if k, err := strconv.Atoi(strings.TrimSpace(v.Periods)); err == nil && k > 0 {
		cfg.Forecast.Periods = k
	}
	cfg.Log.Level = v.LogLevel
}

// NewSetupForm builds the first-run form. It is used both inside the
// dashboard and by the setup command.
func NewSetupForm(vals *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to pvmdash").
				Description("Point pvmdash at a planned vs. actual table (.csv, .tsv, .xlsx or .db)."),
			huh.NewInput().
				Title("Input table").
				Placeholder("/path/to/financials.csv").
				Value(&vals.DataPath).
				Validate(validateDataPath),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
			huh.NewInput().
				Title("Forecast periods").
				Description("Months to extrapolate with the linear trend.").
				Value(&vals.Periods).
				Validate(validatePeriods),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&vals.LogLevel),
		),
	).WithTheme(huh.ThemeBase16()).WithShowHelp(true)
}

func validateDataPath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("required")
	}
	if _, err := source.DetectFormat(s); err != nil {
		return err
	}
	if _, err := os.Stat(s); err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	return nil
}

func validatePeriods(s string) error {
	k, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || k < 1 {
		return errors.New("enter a whole number of months, at least 1")
	}
	return nil
}

// newFilterForm builds the four-way selection form. vals is edited in place.
func newFilterForm(opts pipeline.FilterOptions, vals *model.Selection) *huh.Form {
	sel := func(title, dim string, v *string) huh.Field {
		return huh.NewSelect[string]().
			Title(title).
			Options(huh.NewOptions(opts.Values(dim)...)...).
			Value(v)
	}
	return huh.NewForm(
		huh.NewGroup(
			sel("Region", model.DimRegion, &vals.Region),
			sel("Business unit", model.DimBusinessUnit, &vals.BusinessUnit),
			sel("Project", model.DimProject, &vals.Project),
			sel("Status", model.DimStatus, &vals.Status),
		),
	).WithTheme(huh.ThemeBase16()).WithShowHelp(true)
}

// exportValues are the answers of the export form.
type exportValues struct {
	KPIs []string
	Path string
}

func newExportValues(cfg config.Config) *exportValues {
	kpis := cfg.Export.KPIs
	if len(kpis) == 0 {
		kpis = pipeline.DefaultExportKPIs
	}
	return &exportValues{KPIs: append([]string(nil), kpis...), Path: cfg.Export.Path}
}

func newExportForm(vals *exportValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("KPIs").
				Description("Columns after the month column, in this order.").
				Options(huh.NewOptions(pipeline.KPINames()...)...).
				Value(&vals.KPIs).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return model.ErrNoKPIs
					}
					return nil
				}),
			huh.NewInput().
				Title("Output file").
				Description(".csv, .xlsx or .db").
				Value(&vals.Path).
				Validate(validateExportPath),
		),
	).WithTheme(huh.ThemeBase16()).WithShowHelp(true)
}

func validateExportPath(s string) error {
	s = strings.TrimSpace(s)
	if s == export.Stdout {
		return errors.New("the dashboard owns the terminal; pick a file")
	}
	_, err := export.DetectFormat(s)
	return err
}
