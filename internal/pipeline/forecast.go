package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/theirongolddev/pvmdash/internal/model"
)

// TimeAxis maps a month onto the numeric x value of the trend fit.
type TimeAxis string

const (
	// AxisMonth is a fractional month index, so monthly steps are exactly 1.
	AxisMonth TimeAxis = "month"
	// AxisDay is the proleptic Gregorian day ordinal (0001-01-01 is day 1).
	AxisDay TimeAxis = "day"
)

// unixEpochOrdinal is the day ordinal of 1970-01-01.
const unixEpochOrdinal = 719163

// ParseTimeAxis accepts "month" or "day"; empty means month.
func ParseTimeAxis(s string) (TimeAxis, error) {
	switch TimeAxis(strings.ToLower(strings.TrimSpace(s))) {
	case "", AxisMonth:
		return AxisMonth, nil
	case AxisDay:
		return AxisDay, nil
	}
	return "", fmt.Errorf("unknown time axis %q (want month or day)", s)
}

// X returns the axis value of t.
func (a TimeAxis) X(t time.Time) float64 {
	y, m, d := t.Date()
	if a == AxisDay {
		days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
		return float64(days + unixEpochOrdinal)
	}
	return float64(y*12+int(m)-1) + float64(d-1)/float64(daysIn(y, m))
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FutureMonths returns k month-start dates after last. The first date is
// last plus one calendar month (day clamped to the month end), rolled forward
// to the next month start when it is not already the 1st.
func FutureMonths(last time.Time, k int) []time.Time {
	y, m, d := last.Date()
	if dim := daysIn(y, m+1); d > dim {
		d = dim
	}
	start := time.Date(y, m+1, d, 0, 0, 0, 0, time.UTC)
	if start.Day() != 1 {
		start = time.Date(start.Year(), start.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	}

	out := make([]time.Time, k)
	for i := range out {
		out[i] = start.AddDate(0, i, 0)
	}
	return out
}

// Fit fits value = intercept + slope*x by ordinary least squares.
// Fewer than two distinct months fail with *model.InsufficientDataError.
func Fit(series []model.SeriesPoint, axis TimeAxis, metric string) (model.TrendFit, error) {
	distinct := make(map[time.Time]struct{}, len(series))
	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, p := range series {
		distinct[p.Month] = struct{}{}
		xs[i] = axis.X(p.Month)
		ys[i] = p.Value
	}
	if len(distinct) < 2 {
		return model.TrendFit{}, &model.InsufficientDataError{Metric: metric, Points: len(distinct), Need: 2}
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) {
		// constant series: the flat line is an exact fit
		r2 = 1
	}

	return model.TrendFit{
		Metric:    metric,
		Intercept: alpha,
		Slope:     beta,
		RSquared:  r2,
		Points:    len(series),
	}, nil
}

// Forecast fits a linear trend to series and extrapolates it k months ahead.
// series need not be sorted; a sorted copy is used.
func Forecast(series []model.SeriesPoint, k int, axis TimeAxis, metric string) (model.Forecast, error) {
	if k < 1 {
		return model.Forecast{}, fmt.Errorf("forecast periods must be at least 1, got %d", k)
	}

	sorted := make([]model.SeriesPoint, len(series))
	copy(sorted, series)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Month.Before(sorted[j].Month)
	})

	fit, err := Fit(sorted, axis, metric)
	if err != nil {
		return model.Forecast{}, err
	}

	months := FutureMonths(sorted[len(sorted)-1].Month, k)
	points := make([]model.ForecastPoint, len(months))
	for i, m := range months {
		points[i] = model.ForecastPoint{
			Month:     m,
			Predicted: fit.Intercept + fit.Slope*axis.X(m),
		}
	}

	return model.Forecast{Fit: fit, Points: points}, nil
}
