// Package pipeline derives metrics from loaded records and runs the filter,
// scenario, forecast and aggregation computations over them.
package pipeline

import (
	"math"

	"github.com/theirongolddev/pvmdash/internal/model"
)

// Derive returns a copy of records with every derived field populated.
// A NaN or infinite input field fails with *model.DataValidationError.
func Derive(records []model.Record) ([]model.Record, error) {
	out := make([]model.Record, len(records))
	for i, r := range records {
		if err := checkFinite(r, i+1); err != nil {
			return nil, err
		}
		r.Derived = DeriveRecord(r)
		out[i] = r
	}
	return out, nil
}

// DeriveRecord computes derived metrics from r's own raw fields.
func DeriveRecord(r model.Record) model.Derived {
	profit := r.ActualRevenue - r.ActualCost
	planned := r.PlannedRevenue - r.PlannedCost
	return model.Derived{
		RevenueVariance: r.ActualRevenue - r.PlannedRevenue,
		CostVariance:    r.ActualCost - r.PlannedCost,
		Profit:          profit,
		PlannedProfit:   planned,
		ProfitVariance:  profit - planned,
		PVMImpact:       r.PlannedRevenue * ((r.PriceIndex - 1) + (r.VolumeIndex - 1) + (r.MixIndex - 1)),
	}
}

func checkFinite(r model.Record, row int) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"planned_revenue", r.PlannedRevenue},
		{"actual_revenue", r.ActualRevenue},
		{"planned_cost", r.PlannedCost},
		{"actual_cost", r.ActualCost},
		{"capex", r.CapEx},
		{"opex", r.OpEx},
		{"headcount", r.Headcount},
		{"fx_rate", r.FXRate},
		{"price_index", r.PriceIndex},
		{"volume_index", r.VolumeIndex},
		{"mix_index", r.MixIndex},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &model.DataValidationError{Field: f.name, Row: row, Reason: "not a finite number"}
		}
	}
	if r.Month.IsZero() {
		return &model.DataValidationError{Field: "month", Row: row, Reason: "missing date"}
	}
	return nil
}
