package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/pvmdash/internal/model"
)

func TestWriteTableReadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	cols := []Column{{"month", "TEXT"}, {"Profit", "REAL"}, {"rows", "INTEGER"}}
	rows := [][]any{
		{"2024-01-01", 1250.5, int64(3)},
		{"2024-02-01", -40.0, int64(1)},
	}
	if err := db.WriteTable("kpi_export", cols, rows); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	// second write replaces the table
	if err := db.WriteTable("kpi_export", cols, rows[:1]); err != nil {
		t.Fatalf("WriteTable (replace): %v", err)
	}
	if n, err := db.RowCount("kpi_export"); err != nil || n != 1 {
		t.Fatalf("RowCount = %d, %v; want 1", n, err)
	}
	_ = db.Close()

	ro, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly: %v", err)
	}
	defer func() { _ = ro.Close() }()

	header, got, err := ro.ReadTable("kpi_export")
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(header) != 3 || header[1] != "Profit" {
		t.Fatalf("header = %v", header)
	}
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	want := []string{"2024-01-01", "1250.5", "3"}
	for i := range want {
		if got[0][i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, got[0][i], want[i])
		}
	}
}

func TestWriteTable_RowWidthMismatch(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "x.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	err = db.WriteTable("t", []Column{{"a", "TEXT"}, {"b", "REAL"}}, [][]any{{"only-one"}})
	if err == nil {
		t.Fatal("expected error for short row")
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"records", true},
		{"_kpi2", true},
		{"2bad", false},
		{"drop table x; --", false},
		{`a"b`, false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := QuoteIdent(tt.name)
			if (err == nil) != tt.ok {
				t.Errorf("QuoteIdent(%q) err = %v, want ok=%v", tt.name, err, tt.ok)
			}
		})
	}
}

func TestOpenReadOnly_Missing(t *testing.T) {
	if _, err := OpenReadOnly(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Fatal("expected error for missing database")
	}
}

func TestSaveRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	recs := []model.Record{{
		Month:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Region: "EU", BusinessUnit: "Alpha", Project: "P1", Status: "Active",
		PlannedRevenue: 100, ActualRevenue: 110, FXRate: 1.1,
	}}
	if err := db.SaveRecords("records", recs); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	header, rows, err := db.ReadTable("records")
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if len(header) != len(RecordColumns) {
		t.Fatalf("header len = %d, want %d", len(header), len(RecordColumns))
	}
	if rows[0][0] != "2024-03-01" || rows[0][2] != "Alpha" || rows[0][6] != "110" {
		t.Errorf("row = %v", rows[0])
	}
}
