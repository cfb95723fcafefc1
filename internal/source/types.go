package source

import "github.com/theirongolddev/pvmdash/internal/model"

// Format identifies an input file format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatTSV    Format = "tsv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// Options tunes how a source file is read.
type Options struct {
	Sheet      string       // xlsx sheet; first sheet when empty
	Table      string       // sqlite table; DefaultTable when empty
	ProgressFn ProgressFunc // optional row progress callback
}

// DefaultTable is the sqlite table read when Options.Table is empty.
const DefaultTable = "records"

// ProgressFunc is called while rows are parsed.
// current is the number of rows parsed so far, total is the row count.
type ProgressFunc func(current, total int)

// RawTable is a header plus string cells, the common shape every reader produces.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// ReadResult holds the parsed records of one input file.
type ReadResult struct {
	Path    string
	Format  Format
	Records []model.Record
}

// column describes one required input column.
type column struct {
	key     string
	numeric bool
	setStr  func(r *model.Record, v string)
	setNum  func(r *model.Record, v float64)
}

// keyMonth is handled separately because it needs date parsing.
const keyMonth = "month"

var columns = []column{
	{key: "region", setStr: func(r *model.Record, v string) { r.Region = v }},
	{key: "business_unit", setStr: func(r *model.Record, v string) { r.BusinessUnit = v }},
	{key: "project", setStr: func(r *model.Record, v string) { r.Project = v }},
	{key: "status", setStr: func(r *model.Record, v string) { r.Status = v }},
	{key: "planned_revenue", numeric: true, setNum: func(r *model.Record, v float64) { r.PlannedRevenue = v }},
	{key: "actual_revenue", numeric: true, setNum: func(r *model.Record, v float64) { r.ActualRevenue = v }},
	{key: "planned_cost", numeric: true, setNum: func(r *model.Record, v float64) { r.PlannedCost = v }},
	{key: "actual_cost", numeric: true, setNum: func(r *model.Record, v float64) { r.ActualCost = v }},
	{key: "capex", numeric: true, setNum: func(r *model.Record, v float64) { r.CapEx = v }},
	{key: "opex", numeric: true, setNum: func(r *model.Record, v float64) { r.OpEx = v }},
	{key: "headcount", numeric: true, setNum: func(r *model.Record, v float64) { r.Headcount = v }},
	{key: "fx_rate", numeric: true, setNum: func(r *model.Record, v float64) { r.FXRate = v }},
	{key: "price_index", numeric: true, setNum: func(r *model.Record, v float64) { r.PriceIndex = v }},
	{key: "volume_index", numeric: true, setNum: func(r *model.Record, v float64) { r.VolumeIndex = v }},
	{key: "mix_index", numeric: true, setNum: func(r *model.Record, v float64) { r.MixIndex = v }},
}

// ColumnKeys returns every required column key, month first.
func ColumnKeys() []string {
	keys := make([]string, 0, len(columns)+1)
	keys = append(keys, keyMonth)
	for _, c := range columns {
		keys = append(keys, c.key)
	}
	return keys
}
