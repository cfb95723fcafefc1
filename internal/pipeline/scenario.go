package pipeline

import (
	"math"

	"github.com/theirongolddev/pvmdash/internal/config"
	"github.com/theirongolddev/pvmdash/internal/model"
)

// Params are the four what-if ratios, each a signed fraction (0.05 = +5%).
type Params struct {
	RevenueGrowth       float64
	CostInflation       float64
	FXAdjustment        float64
	HeadcountAdjustment float64
}

// ParamsFromConfig returns the configured default ratios.
func ParamsFromConfig(cfg config.ScenarioConfig) Params {
	return Params{
		RevenueGrowth:       cfg.RevenueGrowth,
		CostInflation:       cfg.CostInflation,
		FXAdjustment:        cfg.FXAdjustment,
		HeadcountAdjustment: cfg.HeadcountAdjustment,
	}
}

// Ratio returns the value of a ratio by name.
func (p Params) Ratio(name string) float64 {
	switch config.NormalizeRatioName(name) {
	case config.RatioRevenueGrowth:
		return p.RevenueGrowth
	case config.RatioCostInflation:
		return p.CostInflation
	case config.RatioFXAdjustment:
		return p.FXAdjustment
	case config.RatioHeadcountAdjustment:
		return p.HeadcountAdjustment
	}
	return 0
}

// WithRatio returns a copy of p with one ratio replaced.
func (p Params) WithRatio(name string, v float64) Params {
	switch config.NormalizeRatioName(name) {
	case config.RatioRevenueGrowth:
		p.RevenueGrowth = v
	case config.RatioCostInflation:
		p.CostInflation = v
	case config.RatioFXAdjustment:
		p.FXAdjustment = v
	case config.RatioHeadcountAdjustment:
		p.HeadcountAdjustment = v
	}
	return p
}

// Unapplied lists the non-zero ratios that the simulation accepts but does
// not yet use. FX and headcount have no formula; they are validated only.
func (p Params) Unapplied() []string {
	var out []string
	if p.FXAdjustment != 0 {
		out = append(out, config.RatioFXAdjustment)
	}
	if p.HeadcountAdjustment != 0 {
		out = append(out, config.RatioHeadcountAdjustment)
	}
	return out
}

// checkFloor rejects non-finite ratios and anything below -100%.
func (p Params) checkFloor() error {
	for _, name := range config.Ratios {
		v := p.Ratio(name)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < config.FloorRatio {
			return &model.ScenarioRangeError{Param: name, Value: v, Min: config.FloorRatio, Max: math.Inf(1)}
		}
	}
	return nil
}

// Validate checks every ratio against the configured bounds.
func (p Params) Validate(cfg config.ScenarioConfig) error {
	if err := p.checkFloor(); err != nil {
		return err
	}
	for _, name := range config.Ratios {
		b, ok := config.LookupBounds(cfg, name)
		if !ok {
			continue
		}
		if v := p.Ratio(name); !b.Contains(v) {
			return &model.ScenarioRangeError{Param: name, Value: v, Min: b.Min, Max: b.Max}
		}
	}
	return nil
}

// Simulate applies revenue growth and cost inflation to each record's actuals.
// Ratios below -100% or non-finite fail with *model.ScenarioRangeError.
func Simulate(records []model.Record, p Params) ([]model.ScenarioPoint, error) {
	if err := p.checkFloor(); err != nil {
		return nil, err
	}
	out := make([]model.ScenarioPoint, len(records))
	for i, r := range records {
		rev := r.ActualRevenue * (1 + p.RevenueGrowth)
		cost := r.ActualCost * (1 + p.CostInflation)
		out[i] = model.ScenarioPoint{
			Month:           r.Month,
			Profit:          r.Derived.Profit,
			ScenarioRevenue: rev,
			ScenarioCost:    cost,
			ScenarioProfit:  rev - cost,
		}
	}
	return out, nil
}
