package store

import "github.com/theirongolddev/pvmdash/internal/model"

// RecordColumns is the layout of an input records table.
var RecordColumns = []Column{
	{"month", "TEXT"},
	{"region", "TEXT"},
	{"business_unit", "TEXT"},
	{"project", "TEXT"},
	{"status", "TEXT"},
	{"planned_revenue", "REAL"},
	{"actual_revenue", "REAL"},
	{"planned_cost", "REAL"},
	{"actual_cost", "REAL"},
	{"capex", "REAL"},
	{"opex", "REAL"},
	{"headcount", "REAL"},
	{"fx_rate", "REAL"},
	{"price_index", "REAL"},
	{"volume_index", "REAL"},
	{"mix_index", "REAL"},
}

// SaveRecords writes records as an input table readable by the sqlite source.
func (d *DB) SaveRecords(table string, records []model.Record) error {
	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{
			r.Month.Format("2006-01-02"),
			r.Region, r.BusinessUnit, r.Project, r.Status,
			r.PlannedRevenue, r.ActualRevenue, r.PlannedCost, r.ActualCost,
			r.CapEx, r.OpEx, r.Headcount, r.FXRate,
			r.PriceIndex, r.VolumeIndex, r.MixIndex,
		}
	}
	return d.WriteTable(table, RecordColumns, rows)
}
