package config

import "strings"

// Scenario ratio names, as used in config keys and error messages.
const (
	RatioRevenueGrowth       = "revenue_growth"
	RatioCostInflation       = "cost_inflation"
	RatioFXAdjustment        = "fx_adjustment"
	RatioHeadcountAdjustment = "headcount_adjustment"
)

// Ratios lists the scenario ratios in slider order.
var Ratios = []string{
	RatioRevenueGrowth,
	RatioCostInflation,
	RatioFXAdjustment,
	RatioHeadcountAdjustment,
}

// Bounds is an inclusive accepted range for a scenario ratio.
type Bounds struct {
	Min float64 `toml:"min"`
	Max float64 `toml:"max"`
}

// Contains reports whether v lies within the bounds.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// FloorRatio is the lowest ratio ever accepted: -100% zeroes the base value.
const FloorRatio = -1.0

// DefaultBounds mirrors the slider ranges of the dashboard.
var DefaultBounds = map[string]Bounds{
	RatioRevenueGrowth:       {Min: -0.10, Max: 0.20},
	RatioCostInflation:       {Min: -0.05, Max: 0.15},
	RatioFXAdjustment:        {Min: -0.10, Max: 0.10},
	RatioHeadcountAdjustment: {Min: -0.20, Max: 0.20},
}

// NormalizeRatioName maps user spellings ("Revenue Growth", "revenue-growth",
// "fx") onto the canonical ratio name. Unknown names are returned lowercased.
func NormalizeRatioName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer(" ", "_", "-", "_").Replace(n)
	switch n {
	case "revenue", "growth":
		return RatioRevenueGrowth
	case "cost", "inflation":
		return RatioCostInflation
	case "fx", "fx_rate", "fx_impact":
		return RatioFXAdjustment
	case "headcount", "headcount_impact":
		return RatioHeadcountAdjustment
	}
	return n
}

// LookupBounds returns the accepted range for a ratio. Config overrides win over
// the defaults; the lower bound is never allowed below FloorRatio.
func LookupBounds(cfg ScenarioConfig, name string) (Bounds, bool) {
	normalized := NormalizeRatioName(name)

	b, ok := DefaultBounds[normalized]
	for k, v := range cfg.Bounds {
		if NormalizeRatioName(k) == normalized {
			b, ok = v, true
			break
		}
	}
	if !ok {
		return Bounds{}, false
	}
	if b.Min < FloorRatio {
		b.Min = FloorRatio
	}
	return b, true
}
