// Package export writes the month column plus selected KPI columns of a
// filtered record set to CSV, XLSX or SQLite.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
	"github.com/theirongolddev/pvmdash/internal/store"
)

// MonthColumn is the first column of every export.
const MonthColumn = "month"

// SheetName is the worksheet written to xlsx exports.
const SheetName = "KPIs"

// TableName is the table written to sqlite exports. It is replaced each time.
const TableName = "kpi_export"

// Stdout as an output path writes CSV to standard output.
const Stdout = "-"

// Table is the in-memory export: one row per record, in record order.
type Table struct {
	Headers []string
	Months  []time.Time
	Values  [][]float64 // Values[row][kpi]
}

// Build selects month plus the named KPIs from records. Names that resolve to
// the same KPI yield one column, at the position of the first.
func Build(records []model.Record, kpiNames []string) (*Table, error) {
	if len(kpiNames) == 0 {
		return nil, model.ErrNoKPIs
	}
	resolved, err := pipeline.LookupKPIs(kpiNames)
	if err != nil {
		return nil, err
	}
	kpis := make([]pipeline.KPI, 0, len(resolved))
	seen := make(map[string]bool, len(resolved))
	for _, k := range resolved {
		if !seen[k.Name] {
			seen[k.Name] = true
			kpis = append(kpis, k)
		}
	}

	t := &Table{
		Headers: make([]string, 0, len(kpis)+1),
		Months:  make([]time.Time, len(records)),
		Values:  make([][]float64, len(records)),
	}
	t.Headers = append(t.Headers, MonthColumn)
	for _, k := range kpis {
		t.Headers = append(t.Headers, k.Name)
	}

	for i, r := range records {
		t.Months[i] = r.Month
		row := make([]float64, len(kpis))
		for j, k := range kpis {
			row[j] = k.Value(r)
		}
		t.Values[i] = row
	}
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Months) }

// StringRows renders every data row as text cells.
func (t *Table) StringRows() [][]string {
	rows := make([][]string, t.Len())
	for i := range t.Months {
		row := make([]string, 0, len(t.Headers))
		row = append(row, t.Months[i].Format("2006-01-02"))
		for _, v := range t.Values[i] {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		rows[i] = row
	}
	return rows
}

// Format is an export file format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// DetectFormat picks the export format from the output path.
func DetectFormat(path string) (Format, error) {
	if path == Stdout {
		return FormatCSV, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, filepath.Ext(path))
}

// Write stores t at path in the format implied by the extension.
func Write(path string, t *Table) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatXLSX:
		return WriteXLSX(path, t)
	case FormatSQLite:
		return WriteSQLite(path, t)
	}
	if path == Stdout {
		return WriteCSV(os.Stdout, t)
	}

	f, err := os.Create(path) //nolint:gosec // user-supplied output path
	if err != nil {
		return err
	}
	if err := WriteCSV(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes the header and rows as CSV.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return err
	}
	if err := cw.WriteAll(t.StringRows()); err != nil {
		return err
	}
	return cw.Error()
}

// WriteXLSX writes t to a new workbook with a single KPIs sheet.
func WriteXLSX(path string, t *Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i := range t.Months {
		row := make([]any, 0, len(t.Headers))
		row = append(row, t.Months[i].Format("2006-01-02"))
		for _, v := range t.Values[i] {
			row = append(row, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

// WriteSQLite replaces the kpi_export table in the database at path.
func WriteSQLite(path string, t *Table) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	cols := make([]store.Column, len(t.Headers))
	cols[0] = store.Column{Name: MonthColumn, Type: "TEXT"}
	for i, h := range t.Headers[1:] {
		cols[i+1] = store.Column{Name: h, Type: "REAL"}
	}

	rows := make([][]any, t.Len())
	for i := range t.Months {
		row := make([]any, 0, len(cols))
		row = append(row, t.Months[i].Format("2006-01-02"))
		for _, v := range t.Values[i] {
			row = append(row, v)
		}
		rows[i] = row
	}
	return db.WriteTable(TableName, cols, rows)
}
