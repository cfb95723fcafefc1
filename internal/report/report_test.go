package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
)

func sampleInput(t *testing.T) Input {
	t.Helper()
	recs := []model.Record{
		{Month: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), PlannedRevenue: 100, ActualRevenue: 110, PlannedCost: 80, ActualCost: 85, PriceIndex: 1.02, VolumeIndex: 1.01, MixIndex: 1},
		{Month: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), PlannedRevenue: 100, ActualRevenue: 120, PlannedCost: 80, ActualCost: 85, PriceIndex: 1, VolumeIndex: 1, MixIndex: 1},
	}
	recs, err := pipeline.Derive(recs)
	if err != nil {
		t.Fatal(err)
	}
	sel := model.Selection{Region: "EU", BusinessUnit: "Alpha", Project: "Alpha", Status: "Active"}
	sum, err := pipeline.Summarize(recs, sel)
	if err != nil {
		t.Fatal(err)
	}
	p := pipeline.Params{RevenueGrowth: 0.05, FXAdjustment: 0.02}
	scen, err := pipeline.Simulate(recs, p)
	if err != nil {
		t.Fatal(err)
	}
	fc, err := pipeline.Forecast(pipeline.Series(recs, pipeline.KPIs()[0]), 2, pipeline.AxisMonth, "Profit")
	if err != nil {
		t.Fatal(err)
	}
	return Input{
		Source: "/tmp/fin.csv", Selection: sel, Summary: sum, Records: recs,
		Params: p, Scenario: scen, Forecasts: []model.Forecast{fc},
		Generated: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := Markdown(&buf, sampleInput(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"# FP&A report: EU / Alpha / Alpha / Active",
		"| Total profit | €60.00 |",
		"## Scenario (revenue +5.0%, cost +0.0%)",
		"fx_adjustment set but not applied",
		"## Forecast: Profit",
		"| Mar 2024 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, "report.html", sampleInput(t)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Error("missing doctype")
	}
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "<h2>Headline KPIs</h2>") {
		t.Errorf("html body not rendered:\n%s", out)
	}
}

func TestWrite_Unsupported(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "r.docx", sampleInput(t)); !errors.Is(err, model.ErrUnsupportedFormat) {
		t.Errorf("err = %v", err)
	}
}
