package chart

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/pvmdash/internal/model"
)

func series(n int) []model.SeriesPoint {
	out := make([]model.SeriesPoint, n)
	for i := range out {
		out[i] = model.SeriesPoint{
			Month: time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
			Value: float64(10 * i),
		}
	}
	return out
}

func TestSave_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trend.png")
	fc := model.Forecast{Points: []model.ForecastPoint{
		{Month: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Predicted: 120},
	}}
	err := Save(path, Figure{
		Title:  "Profit",
		YLabel: "€",
		Series: HistoryWithForecast("Profit", series(12), fc),
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("chart file is empty")
	}
}

func TestSave_UnsupportedExt(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "x.gif"), Figure{Series: []Series{{Name: "a", Points: series(2)}}})
	if !errors.Is(err, model.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestBuild_NoData(t *testing.T) {
	if _, err := Build(Figure{Title: "empty", Series: []Series{{Name: "a"}}}); err == nil {
		t.Fatal("expected error for chart without points")
	}
}

func TestHistoryWithForecast_Continuous(t *testing.T) {
	hist := series(3)
	fc := model.Forecast{Points: []model.ForecastPoint{{Month: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Predicted: 30}}}
	lines := HistoryWithForecast("Profit", hist, fc)
	if len(lines) != 2 {
		t.Fatalf("lines = %d", len(lines))
	}
	if got := lines[1].Points[0]; got != hist[2] {
		t.Errorf("forecast line starts at %+v, want last history point", got)
	}
	if !lines[1].Dashed {
		t.Error("forecast line should be dashed")
	}
}

func TestScenarioSeries(t *testing.T) {
	m := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lines := ScenarioSeries([]model.ScenarioPoint{{Month: m, Profit: 25, ScenarioProfit: 30}})
	if lines[0].Points[0].Value != 25 || lines[1].Points[0].Value != 30 {
		t.Errorf("lines = %+v", lines)
	}
}
