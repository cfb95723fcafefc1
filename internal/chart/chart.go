// Package chart renders metric series as PNG, SVG or PDF line charts.
package chart

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/theirongolddev/pvmdash/internal/model"
)

// Series is one named line on a chart.
type Series struct {
	Name   string
	Points []model.SeriesPoint
	Dashed bool
}

// Figure describes a chart file.
type Figure struct {
	Title  string
	YLabel string
	Series []Series
	Width  vg.Length // 0 means 10in
	Height vg.Length // 0 means 5in
}

// palette loosely follows the dashboard theme: actual, planned, scenario, forecast.
var palette = []color.Color{
	color.RGBA{R: 0x3A, G: 0xA9, B: 0x9F, A: 0xFF},
	color.RGBA{R: 0x43, G: 0x85, B: 0xBE, A: 0xFF},
	color.RGBA{R: 0xDA, G: 0x70, B: 0x2C, A: 0xFF},
	color.RGBA{R: 0x8B, G: 0x7E, B: 0xC8, A: 0xFF},
	color.RGBA{R: 0x87, G: 0x9A, B: 0x39, A: 0xFF},
	color.RGBA{R: 0xD1, G: 0x4D, B: 0x41, A: 0xFF},
}

// SupportedExt reports whether path has an extension the plot backend can write.
func SupportedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg":
		return true
	}
	return false
}

// Build assembles the plot for fig without writing it.
func Build(fig Figure) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fig.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = fig.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 2006"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	drawn := 0
	for i, s := range fig.Series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			xys[j].X = float64(pt.Month.Unix())
			xys[j].Y = pt.Value
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Name, err)
		}
		line.Color = palette[i%len(palette)]
		line.Width = vg.Points(2)
		if s.Dashed {
			line.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
		}

		p.Add(line)
		p.Legend.Add(s.Name, line)
		drawn++
	}
	if drawn == 0 {
		return nil, fmt.Errorf("chart %q has no data", fig.Title)
	}
	return p, nil
}

// Save renders fig to path; the format follows the extension.
func Save(path string, fig Figure) error {
	if !SupportedExt(path) {
		return fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, filepath.Ext(path))
	}
	p, err := Build(fig)
	if err != nil {
		return err
	}
	w, h := fig.Width, fig.Height
	if w == 0 {
		w = 10 * vg.Inch
	}
	if h == 0 {
		h = 5 * vg.Inch
	}
	return p.Save(w, h, path)
}

// HistoryWithForecast joins a history series and its forecast into two lines.
// The forecast line starts at the last observed point so the chart is continuous.
func HistoryWithForecast(name string, history []model.SeriesPoint, fc model.Forecast) []Series {
	future := make([]model.SeriesPoint, 0, len(fc.Points)+1)
	if n := len(history); n > 0 {
		future = append(future, history[n-1])
	}
	for _, p := range fc.Points {
		future = append(future, model.SeriesPoint{Month: p.Month, Value: p.Predicted})
	}
	return []Series{
		{Name: name, Points: history},
		{Name: name + " forecast", Points: future, Dashed: true},
	}
}

// ScenarioSeries turns simulation output into baseline and scenario profit lines.
func ScenarioSeries(points []model.ScenarioPoint) []Series {
	base := make([]model.SeriesPoint, len(points))
	scen := make([]model.SeriesPoint, len(points))
	for i, p := range points {
		base[i] = model.SeriesPoint{Month: p.Month, Value: p.Profit}
		scen[i] = model.SeriesPoint{Month: p.Month, Value: p.ScenarioProfit}
	}
	return []Series{
		{Name: "Profit", Points: base},
		{Name: "Scenario profit", Points: scen, Dashed: true},
	}
}
