package pipeline

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/pvmdash/internal/model"
)

// KPI is a named per-record metric that can be charted, forecast or exported.
type KPI struct {
	Name  string
	Value func(model.Record) float64
	Money bool // false for counts and rates
}

var kpis = []KPI{
	{"Profit", func(r model.Record) float64 { return r.Derived.Profit }, true},
	{"Planned_Profit", func(r model.Record) float64 { return r.Derived.PlannedProfit }, true},
	{"Profit_Variance", func(r model.Record) float64 { return r.Derived.ProfitVariance }, true},
	{"PVM_Impact", func(r model.Record) float64 { return r.Derived.PVMImpact }, true},
	{"Revenue_Variance", func(r model.Record) float64 { return r.Derived.RevenueVariance }, true},
	{"Cost_Variance", func(r model.Record) float64 { return r.Derived.CostVariance }, true},
	{"Planned_Revenue", func(r model.Record) float64 { return r.PlannedRevenue }, true},
	{"Actual_Revenue", func(r model.Record) float64 { return r.ActualRevenue }, true},
	{"Planned_Cost", func(r model.Record) float64 { return r.PlannedCost }, true},
	{"Actual_Cost", func(r model.Record) float64 { return r.ActualCost }, true},
	{"CapEx", func(r model.Record) float64 { return r.CapEx }, true},
	{"OpEx", func(r model.Record) float64 { return r.OpEx }, true},
	{"Headcount", func(r model.Record) float64 { return r.Headcount }, false},
	{"FX_Rate", func(r model.Record) float64 { return r.FXRate }, false},
}

// DefaultExportKPIs is the export selection used when none is configured.
var DefaultExportKPIs = []string{"Profit", "PVM_Impact", "Revenue_Variance", "Cost_Variance", "CapEx", "OpEx"}

// KPIs returns every registered KPI in display order.
func KPIs() []KPI {
	out := make([]KPI, len(kpis))
	copy(out, kpis)
	return out
}

// KPINames returns the canonical KPI names in display order.
func KPINames() []string {
	names := make([]string, len(kpis))
	for i, k := range kpis {
		names[i] = k.Name
	}
	return names
}

// LookupKPI finds a KPI by name, ignoring case and treating spaces and
// hyphens as underscores.
func LookupKPI(name string) (KPI, error) {
	key := normalizeKPI(name)
	for _, k := range kpis {
		if normalizeKPI(k.Name) == key {
			return k, nil
		}
	}
	return KPI{}, fmt.Errorf("%w: %q", model.ErrUnknownKPI, name)
}

// LookupKPIs resolves every name, failing on the first unknown one.
func LookupKPIs(names []string) ([]KPI, error) {
	out := make([]KPI, 0, len(names))
	for _, n := range names {
		k, err := LookupKPI(n)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

func normalizeKPI(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// Series extracts one KPI as a (month, value) series in record order.
func Series(records []model.Record, k KPI) []model.SeriesPoint {
	out := make([]model.SeriesPoint, len(records))
	for i, r := range records {
		out[i] = model.SeriesPoint{Month: r.Month, Value: k.Value(r)}
	}
	return out
}
