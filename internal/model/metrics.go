package model

import "time"

// KPISummary holds the headline aggregates for a filtered record set.
type KPISummary struct {
	Rows       int
	FirstMonth time.Time
	LastMonth  time.Time

	TotalProfit         float64
	TotalPlannedProfit  float64
	TotalProfitVariance float64

	PlannedRevenue  float64
	ActualRevenue   float64
	RevenueVariance float64
	PlannedCost     float64
	ActualCost      float64
	CostVariance    float64

	TotalPVMImpact float64
	TotalCapEx     float64
	TotalOpEx      float64

	AvgFXRate    float64
	AvgHeadcount int // truncated mean, as displayed on the dashboard
}

// ScenarioPoint is one month of a what-if simulation.
type ScenarioPoint struct {
	Month           time.Time
	Profit          float64 // baseline actual profit
	ScenarioRevenue float64
	ScenarioCost    float64
	ScenarioProfit  float64
}

// ForecastPoint is one extrapolated future month.
type ForecastPoint struct {
	Month     time.Time
	Predicted float64
}

// SeriesPoint is one (month, value) observation of a single metric.
type SeriesPoint struct {
	Month time.Time
	Value float64
}

// TrendFit describes a fitted linear trend.
type TrendFit struct {
	Metric    string
	Intercept float64
	Slope     float64 // per unit of the time axis
	RSquared  float64
	Points    int
}

// Forecast bundles a fit with its extrapolated points.
type Forecast struct {
	Fit    TrendFit
	Points []ForecastPoint
}
