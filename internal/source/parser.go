// Package source reads the financial input table from CSV, XLSX or SQLite
// and parses it into validated records.
package source

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/pvmdash/internal/model"
)

// monthLayouts are tried in order when parsing the month column.
var monthLayouts = []string{
	"2006-01-02",
	"2006-01",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"Jan 2006",
	"January 2006",
	"2006/01/02",
}

// NormalizeHeader maps a header cell onto a column key:
// lowercased, trimmed, spaces and hyphens become underscores.
//
//	"Business Unit" -> "business_unit"
//	"FX_Rate"       -> "fx_rate"
func NormalizeHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	h = strings.ToLower(h)
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	return h
}

// ParseMonth parses a month cell into a UTC calendar date.
func ParseMonth(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range monthLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseNumber parses a numeric cell, rejecting blanks, NaN and infinities.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}

// ParseTable validates the header and converts every data row into a record.
// Blank rows are skipped. The first bad cell aborts parsing with a
// *model.DataValidationError naming the field and 1-based data row.
func ParseTable(raw RawTable, progressFn ProgressFunc) ([]model.Record, error) {
	idx := make(map[string]int, len(raw.Header))
	for i, h := range raw.Header {
		key := NormalizeHeader(h)
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}

	for _, key := range ColumnKeys() {
		if _, ok := idx[key]; !ok {
			return nil, &model.DataValidationError{Field: key, Reason: "missing column"}
		}
	}

	records := make([]model.Record, 0, len(raw.Rows))
	total := len(raw.Rows)
	for i, row := range raw.Rows {
		rowNum := i + 1
		if progressFn != nil && (rowNum%500 == 0 || rowNum == total) {
			progressFn(rowNum, total)
		}
		if isBlankRow(row) {
			continue
		}

		var rec model.Record

		month, err := ParseMonth(cell(row, idx[keyMonth]))
		if err != nil {
			return nil, &model.DataValidationError{
				Field: keyMonth, Row: rowNum, Value: cell(row, idx[keyMonth]), Reason: err.Error(),
			}
		}
		rec.Month = month

		for _, c := range columns {
			v := cell(row, idx[c.key])
			if !c.numeric {
				v = strings.TrimSpace(v)
				if v == "" {
					return nil, &model.DataValidationError{Field: c.key, Row: rowNum, Reason: "empty value"}
				}
				c.setStr(&rec, v)
				continue
			}
			n, err := parseNumber(v)
			if err != nil {
				return nil, &model.DataValidationError{
					Field: c.key, Row: rowNum, Value: strings.TrimSpace(v), Reason: err.Error(),
				}
			}
			c.setNum(&rec, n)
		}

		records = append(records, rec)
	}

	return records, nil
}

// cell returns row[i], or "" when the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
