package pipeline

import (
	"github.com/theirongolddev/pvmdash/internal/model"
)

// Summarize computes the headline KPIs over a filtered record set.
// An empty set fails with *model.EmptyFilterResultError rather than
// reporting zero totals and NaN averages.
func Summarize(records []model.Record, sel model.Selection) (model.KPISummary, error) {
	if len(records) == 0 {
		return model.KPISummary{}, &model.EmptyFilterResultError{Selection: sel}
	}

	var s model.KPISummary
	var fxSum, headSum float64

	s.Rows = len(records)
	s.FirstMonth = records[0].Month
	s.LastMonth = records[0].Month

	for _, r := range records {
		if r.Month.Before(s.FirstMonth) {
			s.FirstMonth = r.Month
		}
		if r.Month.After(s.LastMonth) {
			s.LastMonth = r.Month
		}

		s.TotalProfit += r.Derived.Profit
		s.TotalPlannedProfit += r.Derived.PlannedProfit
		s.TotalProfitVariance += r.Derived.ProfitVariance

		s.PlannedRevenue += r.PlannedRevenue
		s.ActualRevenue += r.ActualRevenue
		s.RevenueVariance += r.Derived.RevenueVariance
		s.PlannedCost += r.PlannedCost
		s.ActualCost += r.ActualCost
		s.CostVariance += r.Derived.CostVariance

		s.TotalPVMImpact += r.Derived.PVMImpact
		s.TotalCapEx += r.CapEx
		s.TotalOpEx += r.OpEx

		fxSum += r.FXRate
		headSum += r.Headcount
	}

	n := float64(len(records))
	s.AvgFXRate = fxSum / n
	s.AvgHeadcount = int(headSum / n)

	return s, nil
}
