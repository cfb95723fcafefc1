// Package report renders a shareable KPI report as Markdown or HTML.
package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/theirongolddev/pvmdash/internal/cli"
	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
)

// Input is everything a report shows. Scenario and Forecasts may be empty.
type Input struct {
	Source    string
	Selection model.Selection
	Summary   model.KPISummary
	Records   []model.Record
	Params    pipeline.Params
	Scenario  []model.ScenarioPoint
	Forecasts []model.Forecast
	Generated time.Time
}

// Markdown writes the report as GitHub-flavoured Markdown.
func Markdown(w io.Writer, in Input) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# FP&A report: %s\n\n", in.Selection)
	fmt.Fprintf(&b, "Source `%s`, %d months (%s to %s), generated %s.\n\n",
		filepath.Base(in.Source), in.Summary.Rows,
		cli.FormatMonth(in.Summary.FirstMonth), cli.FormatMonth(in.Summary.LastMonth),
		in.Generated.Format("2006-01-02 15:04"))

	s := in.Summary
	b.WriteString("## Headline KPIs\n\n")
	b.WriteString("| KPI | Value |\n|---|---:|\n")
	kv := [][2]string{
		{"Total profit", cli.FormatMoney(s.TotalProfit)},
		{"Planned profit", cli.FormatMoney(s.TotalPlannedProfit)},
		{"Profit variance", cli.FormatSignedMoney(s.TotalProfitVariance)},
		{"Revenue variance", cli.FormatSignedMoney(s.RevenueVariance)},
		{"Cost variance", cli.FormatSignedMoney(s.CostVariance)},
		{"PVM impact", cli.FormatSignedMoney(s.TotalPVMImpact)},
		{"CapEx", cli.FormatMoney(s.TotalCapEx)},
		{"OpEx", cli.FormatMoney(s.TotalOpEx)},
		{"Avg FX rate", fmt.Sprintf("%.3f", s.AvgFXRate)},
		{"Avg headcount", fmt.Sprintf("%d", s.AvgHeadcount)},
	}
	for _, row := range kv {
		fmt.Fprintf(&b, "| %s | %s |\n", row[0], row[1])
	}
	b.WriteString("\n")

	b.WriteString("## Monthly variance\n\n")
	b.WriteString("| Month | Revenue var. | Cost var. | Profit | Profit var. | PVM impact |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|\n")
	for _, r := range in.Records {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			cli.FormatMonth(r.Month),
			cli.FormatSignedMoney(r.Derived.RevenueVariance),
			cli.FormatSignedMoney(r.Derived.CostVariance),
			cli.FormatMoney(r.Derived.Profit),
			cli.FormatSignedMoney(r.Derived.ProfitVariance),
			cli.FormatSignedMoney(r.Derived.PVMImpact))
	}
	b.WriteString("\n")

	if len(in.Scenario) > 0 {
		p := in.Params
		fmt.Fprintf(&b, "## Scenario (revenue %s, cost %s)\n\n",
			cli.FormatRatio(p.RevenueGrowth), cli.FormatRatio(p.CostInflation))
		if u := p.Unapplied(); len(u) > 0 {
			fmt.Fprintf(&b, "> %s set but not applied to the simulation.\n\n", strings.Join(u, ", "))
		}
		b.WriteString("| Month | Profit | Scenario profit | Delta |\n|---|---:|---:|---:|\n")
		for _, sp := range in.Scenario {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				cli.FormatMonth(sp.Month), cli.FormatMoney(sp.Profit),
				cli.FormatMoney(sp.ScenarioProfit), cli.FormatDelta(sp.ScenarioProfit, sp.Profit))
		}
		b.WriteString("\n")
	}

	for _, fc := range in.Forecasts {
		fmt.Fprintf(&b, "## Forecast: %s\n\n", fc.Fit.Metric)
		fmt.Fprintf(&b, "Linear trend over %d points, slope %s per period, R² %.3f.\n\n",
			fc.Fit.Points, cli.FormatSignedMoney(fc.Fit.Slope), fc.Fit.RSquared)
		b.WriteString("| Month | Predicted |\n|---|---:|\n")
		for _, p := range fc.Points {
			fmt.Fprintf(&b, "| %s | %s |\n", cli.FormatMonth(p.Month), cli.FormatMoney(p.Predicted))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

const htmlHead = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>pvmdash report</title>
<style>
body{font-family:system-ui,sans-serif;max-width:60rem;margin:2rem auto;color:#1c1b1a}
table{border-collapse:collapse;margin-bottom:1.5rem}
th,td{border:1px solid #ccc;padding:.25rem .6rem}
th{background:#f2f0e5}
blockquote{color:#da702c;margin-left:0}
</style></head><body>
`

// HTML renders the Markdown report through goldmark into a standalone page.
func HTML(w io.Writer, in Input) error {
	var md bytes.Buffer
	if err := Markdown(&md, in); err != nil {
		return err
	}

	conv := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := conv.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}

	if _, err := io.WriteString(w, htmlHead); err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "</body></html>\n")
	return err
}

// Write picks Markdown or HTML from the extension of path.
func Write(w io.Writer, path string, in Input) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return HTML(w, in)
	case ".md", ".markdown", "":
		return Markdown(w, in)
	}
	return fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, filepath.Ext(path))
}
