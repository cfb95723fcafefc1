// Package model defines domain types for pvmdash records, derived metrics and results.
package model

import "time"

// Record is one project/month observation from the input table.
// Raw fields are never modified after load; Derived is filled by the metrics deriver.
type Record struct {
	Month        time.Time
	Region       string
	BusinessUnit string
	Project      string
	Status       string

	PlannedRevenue float64
	ActualRevenue  float64
	PlannedCost    float64
	ActualCost     float64
	CapEx          float64
	OpEx           float64
	Headcount      float64
	FXRate         float64

	// Multipliers, 1.0 = no effect.
	PriceIndex  float64
	VolumeIndex float64
	MixIndex    float64

	Derived Derived
}

// Derived holds the metrics computed from a record's own raw fields.
type Derived struct {
	RevenueVariance float64
	CostVariance    float64
	Profit          float64
	PlannedProfit   float64
	ProfitVariance  float64
	PVMImpact       float64
}

// Selection is one value per filter dimension. Every field is an exact match.
type Selection struct {
	Region       string
	BusinessUnit string
	Project      string
	Status       string
}

// Matches reports whether r belongs to the selection.
func (s Selection) Matches(r Record) bool {
	return r.Region == s.Region &&
		r.BusinessUnit == s.BusinessUnit &&
		r.Project == s.Project &&
		r.Status == s.Status
}

// String renders the selection as "region / bu / project / status".
func (s Selection) String() string {
	return s.Region + " / " + s.BusinessUnit + " / " + s.Project + " / " + s.Status
}

// Dimension names used for filter option listings and error messages.
const (
	DimRegion       = "region"
	DimBusinessUnit = "business_unit"
	DimProject      = "project"
	DimStatus       = "status"
)

// Dimensions lists the filter dimensions in display order.
var Dimensions = []string{DimRegion, DimBusinessUnit, DimProject, DimStatus}
