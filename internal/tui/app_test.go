package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/pvmdash/internal/config"
	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/source"
)

func writeCSV(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(source.ColumnKeys(), ",") + "\n")
	for m := 1; m <= 6; m++ {
		fmt.Fprintf(&b, "2024-%02d-01,EU,Alpha,Alpha,Active,1000,%d,800,850,100,750,4,1.1,1.02,1.01,1\n", m, 1000+m*50)
	}
	b.WriteString("2024-01-01,US,Beta,B1,Closed,10,10,5,5,1,1,1,1,1,1,1\n")
	path := filepath.Join(t.TempDir(), "fin.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// loadedApp runs the real loader and feeds its result into the model.
func loadedApp(t *testing.T) App {
	t.Helper()
	return loadedAppWith(t, config.DefaultConfig())
}

func loadedAppWith(t *testing.T, cfg config.Config) App {
	t.Helper()
	path := writeCSV(t)
	a := NewApp(Options{DataPath: path, Config: cfg})

	msg := loadDataCmd(path, cfg, a.loadSub)()
	for {
		if _, ok := msg.(ProgressMsg); !ok {
			break
		}
		msg = waitForLoadMsg(a.loadSub)()
	}

	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	m, _ = m.(App).Update(msg)
	got := m.(App)
	if !got.loaded {
		t.Fatalf("app not loaded, loadErr = %v", got.loadErr)
	}
	return got
}

func press(t *testing.T, a App, keys ...tea.KeyMsg) App {
	t.Helper()
	for _, k := range keys {
		m, _ := a.Update(k)
		a = m.(App)
	}
	return a
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_LoadResolvesDefaultSelection(t *testing.T) {
	a := loadedApp(t)

	want := model.Selection{Region: "EU", BusinessUnit: "Alpha", Project: "Alpha", Status: "Active"}
	if a.sel != want {
		t.Fatalf("selection = %+v, want %+v", a.sel, want)
	}
	if len(a.records) != 6 {
		t.Fatalf("filtered records = %d, want 6", len(a.records))
	}
	if a.rows != 7 {
		t.Errorf("rows = %d, want 7", a.rows)
	}
	if a.summary.Rows != 6 {
		t.Errorf("summary rows = %d, want 6", a.summary.Rows)
	}
	if a.fcErr != nil {
		t.Errorf("forecast error: %v", a.fcErr)
	}
	if len(a.forecast.Points) != 3 {
		t.Errorf("forecast points = %d, want 3", len(a.forecast.Points))
	}

	view := a.View()
	for _, s := range []string{"Profit", "Overview", "EU"} {
		if !strings.Contains(view, s) {
			t.Errorf("overview missing %q", s)
		}
	}
}

func TestApp_TabKeys(t *testing.T) {
	a := loadedApp(t)

	tests := []struct {
		key  tea.KeyMsg
		want int
	}{
		{runes("s"), tabScenario},
		{runes("t"), tabForecast},
		{runes("x"), tabSettings},
		{runes("2"), tabVariance},
		{tea.KeyMsg{Type: tea.KeyRight}, tabPVM},
		{tea.KeyMsg{Type: tea.KeyTab}, tabCapEx},
	}
	for _, tt := range tests {
		a = press(t, a, tt.key)
		if a.activeTab != tt.want {
			t.Errorf("after %q: tab = %d, want %d", tt.key.String(), a.activeTab, tt.want)
		}
		if v := a.View(); v == "" {
			t.Errorf("tab %d rendered empty", a.activeTab)
		}
	}
}

func TestApp_ScenarioSlidersClampToBounds(t *testing.T) {
	a := loadedApp(t)
	a = press(t, a, runes("s"))

	for range 20 {
		a = press(t, a, runes("L"))
	}
	if a.params.RevenueGrowth != 0.20 {
		t.Errorf("revenue growth = %v, want upper bound 0.20", a.params.RevenueGrowth)
	}
	if a.scenErr != nil {
		t.Fatalf("in-bounds ratio rejected: %v", a.scenErr)
	}

	a = press(t, a, runes("j"), runes("h"))
	if a.scen.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", a.scen.cursor)
	}
	if a.params.CostInflation != 0.025 {
		t.Errorf("cost inflation = %v, want 0.025 after one step down from 0.03", a.params.CostInflation)
	}

	want := a.records[0].ActualRevenue*1.20 - a.records[0].ActualCost*1.025
	if got := a.scenario[0].ScenarioProfit; got-want > 1e-9 || want-got > 1e-9 {
		t.Errorf("scenario profit = %v, want %v", got, want)
	}

	a = press(t, a, runes("0"))
	if a.params.RevenueGrowth != 0.05 || a.params.CostInflation != 0.03 {
		t.Errorf("reset params = %+v, want configured defaults", a.params)
	}
}

func TestApp_ScenarioSliderStopsAtOffGridBound(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Scenario.Bounds = map[string]config.Bounds{
		"revenue_growth": {Min: -0.1, Max: 0.123},
	}
	a := loadedAppWith(t, cfg)
	a = press(t, a, runes("s"))

	for range 30 {
		a = press(t, a, runes("l"))
	}
	if a.params.RevenueGrowth != 0.123 {
		t.Errorf("revenue growth = %v, want bound 0.123", a.params.RevenueGrowth)
	}
	if a.scenErr != nil {
		t.Fatalf("slider key produced an out-of-range scenario: %v", a.scenErr)
	}
}

func TestApp_ScenarioOutOfBoundsFromConfig(t *testing.T) {
	a := loadedApp(t)
	a.params.RevenueGrowth = 0.5
	a.runScenario()

	if !errors.Is(a.scenErr, model.ErrScenarioRange) {
		t.Fatalf("scenErr = %v, want ScenarioRangeError", a.scenErr)
	}
	a = press(t, a, runes("s"))
	if !strings.Contains(a.View(), "Scenario out of range") {
		t.Error("scenario tab should show the range error card")
	}
}

func TestApp_EmptySelectionShowsError(t *testing.T) {
	a := loadedApp(t)
	a.sel = model.Selection{Region: "EU", BusinessUnit: "Beta", Project: "B1", Status: "Closed"}
	a.recompute()

	if !errors.Is(a.viewErr, model.ErrEmptyFilter) {
		t.Fatalf("viewErr = %v, want EmptyFilterResultError", a.viewErr)
	}
	if !strings.Contains(a.View(), "No records") {
		t.Error("view should show the empty filter card")
	}
}

func TestApp_ForecastKeys(t *testing.T) {
	a := loadedApp(t)
	a = press(t, a, runes("t"), runes("+"), runes("+"))
	if a.periods != 5 || len(a.forecast.Points) != 5 {
		t.Errorf("periods = %d, points = %d, want 5", a.periods, len(a.forecast.Points))
	}

	before := currentKPI(a.metric)
	a = press(t, a, runes("j"))
	if currentKPI(a.metric) == before {
		t.Error("j should move to the next KPI")
	}
	for range 30 {
		a = press(t, a, runes("-"))
	}
	if a.periods != 1 {
		t.Errorf("periods = %d, want floor of 1", a.periods)
	}
}

func TestApp_ReloadFailureKeepsData(t *testing.T) {
	a := loadedApp(t)
	if err := os.WriteFile(a.dataPath, []byte("month,region\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	m, cmd := a.Update(runes("r"))
	a = m.(App)
	if !a.reloading || cmd == nil {
		t.Fatal("r should start a reload")
	}
	m, _ = a.Update(cmd())
	a = m.(App)

	if a.reloading {
		t.Error("reloading flag not cleared")
	}
	if !strings.Contains(a.flash, "keeping previous data") {
		t.Errorf("flash = %q", a.flash)
	}
	if len(a.records) != 6 {
		t.Errorf("records = %d after failed reload, want 6", len(a.records))
	}
}

func TestApp_ExportCmdWritesFile(t *testing.T) {
	a := loadedApp(t)
	out := filepath.Join(t.TempDir(), "kpis.csv")

	msg := exportCmd(a.records, exportValues{KPIs: []string{"Profit", "CapEx"}, Path: out})()
	done, ok := msg.(ExportDoneMsg)
	if !ok || done.Err != nil {
		t.Fatalf("export msg = %#v", msg)
	}
	if done.Rows != 6 {
		t.Errorf("rows = %d, want 6", done.Rows)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "month,Profit,CapEx\n") {
		t.Errorf("header = %q", strings.SplitN(string(data), "\n", 2)[0])
	}
}

func TestApp_NeedsSetupWithoutDataPath(t *testing.T) {
	a := NewApp(Options{Config: config.DefaultConfig()})
	if a.setupForm == nil || !a.needSetup {
		t.Fatal("missing data path should open the setup form")
	}
}

func TestSetupValuesApply(t *testing.T) {
	cfg := config.DefaultConfig()
	vals := NewSetupValues(cfg)
	vals.DataPath = " /data/fin.csv "
	vals.Periods = "6"
	vals.Theme = "tokyo-night"
	vals.Apply(&cfg)

	if cfg.Input.Path != "/data/fin.csv" || cfg.Forecast.Periods != 6 || cfg.Appearance.Theme != "tokyo-night" {
		t.Errorf("applied config = %+v", cfg)
	}

	vals.Periods = "zero"
	vals.Apply(&cfg)
	if cfg.Forecast.Periods != 6 {
		t.Errorf("invalid periods should leave %d, got %d", 6, cfg.Forecast.Periods)
	}
}

func TestValidators(t *testing.T) {
	if validatePeriods("0") == nil || validatePeriods("x") == nil {
		t.Error("validatePeriods accepted an invalid value")
	}
	if err := validatePeriods("12"); err != nil {
		t.Errorf("validatePeriods(12) = %v", err)
	}
	if validateExportPath("-") == nil {
		t.Error("stdout export should be rejected inside the dashboard")
	}
	if validateExportPath("out.txt") == nil {
		t.Error("unsupported export extension accepted")
	}
	if err := validateExportPath("out.xlsx"); err != nil {
		t.Errorf("validateExportPath(out.xlsx) = %v", err)
	}
	if validateDataPath(filepath.Join(t.TempDir(), "missing.csv")) == nil {
		t.Error("missing input accepted")
	}
}
