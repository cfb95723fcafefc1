package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/store"
)

// DetectFormat picks the input format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".tsv", ".tab":
		return FormatTSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	}
	return "", fmt.Errorf("%w: %s", model.ErrUnsupportedFormat, filepath.Ext(path))
}

// Read loads and parses the input table at path.
func Read(path string, opts Options) (*ReadResult, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	var raw RawTable
	switch format {
	case FormatCSV, FormatTSV:
		raw, err = readDelimitedFile(path, delimiterFor(format))
	case FormatXLSX:
		raw, err = readXLSX(path, opts.Sheet)
	case FormatSQLite:
		raw, err = readSQLite(path, opts.Table)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	records, err := ParseTable(raw, opts.ProgressFn)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	return &ReadResult{Path: path, Format: format, Records: records}, nil
}

func delimiterFor(f Format) rune {
	if f == FormatTSV {
		return '\t'
	}
	return ','
}

func readDelimitedFile(path string, delim rune) (RawTable, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied input path
	if err != nil {
		return RawTable{}, err
	}
	defer func() { _ = f.Close() }()
	return ReadDelimited(f, delim)
}

// ReadDelimited reads a header row plus data rows from a CSV/TSV stream.
func ReadDelimited(r io.Reader, delim rune) (RawTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1 // short rows surface as missing cells, not reader errors
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return RawTable{}, nil
	}
	if err != nil {
		return RawTable{}, err
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RawTable{}, err
		}
		rows = append(rows, row)
	}
	return RawTable{Header: header, Rows: rows}, nil
}

func readSQLite(path, table string) (RawTable, error) {
	if table == "" {
		table = DefaultTable
	}
	db, err := store.OpenReadOnly(path)
	if err != nil {
		return RawTable{}, err
	}
	defer func() { _ = db.Close() }()

	header, rows, err := db.ReadTable(table)
	if err != nil {
		return RawTable{}, err
	}
	return RawTable{Header: header, Rows: rows}, nil
}
