package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/pvmdash/internal/model"
)

// Table is an immutable, month-sorted set of derived records.
// Accessors hand out copies so callers cannot mutate the cached rows.
type Table struct {
	records  []model.Record
	source   string
	loadedAt time.Time
}

// NewTable stable-sorts a copy of records by month and derives every row.
func NewTable(records []model.Record, source string) (*Table, error) {
	sorted := make([]model.Record, len(records))
	copy(sorted, records)
	SortByMonth(sorted)

	derived, err := Derive(sorted)
	if err != nil {
		return nil, err
	}
	return &Table{records: derived, source: source, loadedAt: time.Now()}, nil
}

// SortByMonth sorts records ascending by month in place, keeping input order for ties.
func SortByMonth(records []model.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Month.Before(records[j].Month)
	})
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.records) }

// At returns row i.
func (t *Table) At(i int) model.Record { return t.records[i] }

// Records returns a copy of every row.
func (t *Table) Records() []model.Record {
	out := make([]model.Record, len(t.records))
	copy(out, t.records)
	return out
}

// Source is the path the table was loaded from.
func (t *Table) Source() string { return t.source }

// LoadedAt is when the table was built.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }
