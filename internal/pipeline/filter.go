package pipeline

import (
	"github.com/theirongolddev/pvmdash/internal/model"
)

// FilterOptions lists the distinct values of each filter dimension in
// order of first appearance.
type FilterOptions struct {
	Regions       []string
	BusinessUnits []string
	Projects      []string
	Statuses      []string
}

// Values returns the options for one dimension name.
func (o FilterOptions) Values(dim string) []string {
	switch dim {
	case model.DimRegion:
		return o.Regions
	case model.DimBusinessUnit:
		return o.BusinessUnits
	case model.DimProject:
		return o.Projects
	case model.DimStatus:
		return o.Statuses
	}
	return nil
}

// Options collects the selectable values of every dimension.
func Options(records []model.Record) FilterOptions {
	var o FilterOptions
	seen := map[string]map[string]bool{}
	add := func(dim string, dst *[]string, v string) {
		if seen[dim] == nil {
			seen[dim] = map[string]bool{}
		}
		if !seen[dim][v] {
			seen[dim][v] = true
			*dst = append(*dst, v)
		}
	}
	for _, r := range records {
		add(model.DimRegion, &o.Regions, r.Region)
		add(model.DimBusinessUnit, &o.BusinessUnits, r.BusinessUnit)
		add(model.DimProject, &o.Projects, r.Project)
		add(model.DimStatus, &o.Statuses, r.Status)
	}
	return o
}

// DefaultSelection picks the first value of each dimension, like a select box
// showing its first entry. The result may match no records.
func DefaultSelection(records []model.Record) model.Selection {
	o := Options(records)
	first := func(v []string) string {
		if len(v) == 0 {
			return ""
		}
		return v[0]
	}
	return model.Selection{
		Region:       first(o.Regions),
		BusinessUnit: first(o.BusinessUnits),
		Project:      first(o.Projects),
		Status:       first(o.Statuses),
	}
}

// Complete fills empty fields of sel from DefaultSelection.
func Complete(records []model.Record, sel model.Selection) model.Selection {
	def := DefaultSelection(records)
	if sel.Region == "" {
		sel.Region = def.Region
	}
	if sel.BusinessUnit == "" {
		sel.BusinessUnit = def.BusinessUnit
	}
	if sel.Project == "" {
		sel.Project = def.Project
	}
	if sel.Status == "" {
		sel.Status = def.Status
	}
	return sel
}

// Filter returns the records matching sel exactly, in their original order.
// Zero matches fail with *model.EmptyFilterResultError.
func Filter(records []model.Record, sel model.Selection) ([]model.Record, error) {
	var out []model.Record
	for _, r := range records {
		if sel.Matches(r) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, &model.EmptyFilterResultError{Selection: sel}
	}
	return out, nil
}
