package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads one worksheet. Cells are read raw so numbers keep full precision;
// month cells stored as Excel serial dates are converted to ISO dates.
func readXLSX(path, sheet string) (RawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return RawTable{}, err
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return RawTable{}, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return RawTable{}, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return RawTable{}, nil
	}

	raw := RawTable{Header: rows[0], Rows: rows[1:]}

	monthIdx := -1
	for i, h := range raw.Header {
		if NormalizeHeader(h) == keyMonth {
			monthIdx = i
			break
		}
	}
	if monthIdx >= 0 {
		for _, row := range raw.Rows {
			if monthIdx < len(row) {
				row[monthIdx] = serialToISO(row[monthIdx])
			}
		}
	}

	return raw, nil
}

// serialToISO converts an Excel serial date ("45292") to "2024-01-01".
// Anything that is not a plain number is returned unchanged.
func serialToISO(v string) string {
	s := strings.TrimSpace(v)
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial <= 0 {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return v
	}
	return t.Format("2006-01-02")
}
