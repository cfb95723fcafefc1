package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/store"
)

const header = "Month,Region,Business Unit,Project,Status,Planned_Revenue,Actual_Revenue,Planned_Cost,Actual_Cost,CapEx,OpEx,Headcount,FX_Rate,Price_Index,Volume_Index,Mix_Index"

// writeInput creates a temp input file with the given lines and returns its path.
func writeInput(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRead_CSV(t *testing.T) {
	path := writeInput(t, "fin.csv",
		header,
		"2024-01-01,EU,Alpha,P1,Active,1000,1100,600,650,50,550,12,1.1,1.02,0.98,1.01",
		"2024-02-01,EU,Alpha,P1,Active,1000,900,600,580,40,540,12,1.08,1,1,1",
	)

	res, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if res.Format != FormatCSV {
		t.Errorf("Format = %q, want csv", res.Format)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}

	r := res.Records[0]
	if !r.Month.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Month = %v", r.Month)
	}
	if r.BusinessUnit != "Alpha" || r.Region != "EU" {
		t.Errorf("dims = %q/%q", r.Region, r.BusinessUnit)
	}
	if r.ActualRevenue != 1100 || r.FXRate != 1.1 || r.MixIndex != 1.01 {
		t.Errorf("numbers = %+v", r)
	}
}

func TestRead_TSVAndBlankRows(t *testing.T) {
	tsvHeader := strings.ReplaceAll(header, ",", "\t")
	path := writeInput(t, "fin.tsv",
		tsvHeader,
		"2024-01\tEU\tAlpha\tP1\tActive\t1\t2\t3\t4\t5\t6\t7\t1\t1\t1\t1",
		"\t\t",
		"2024-02\tUS\tBeta\tP2\tClosed\t1\t2\t3\t4\t5\t6\t7\t1\t1\t1\t1",
	)

	res, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2 (blank row skipped)", len(res.Records))
	}
	if res.Records[1].Status != "Closed" {
		t.Errorf("Status = %q, want Closed", res.Records[1].Status)
	}
}

func TestParseTable_MissingColumn(t *testing.T) {
	raw, err := ReadDelimited(strings.NewReader("month,region\n2024-01-01,EU\n"), ',')
	if err != nil {
		t.Fatal(err)
	}

	_, err = ParseTable(raw, nil)
	var dve *model.DataValidationError
	if !errors.As(err, &dve) {
		t.Fatalf("err = %v, want DataValidationError", err)
	}
	if dve.Field != "business_unit" {
		t.Errorf("Field = %q, want business_unit", dve.Field)
	}
	if !errors.Is(err, model.ErrDataValidation) {
		t.Error("errors.Is(err, ErrDataValidation) = false")
	}
}

func TestParseTable_BadNumberReportsRow(t *testing.T) {
	raw, err := ReadDelimited(strings.NewReader(header+"\n"+
		"2024-01-01,EU,Alpha,P1,Active,1,2,3,4,5,6,7,1,1,1,1\n"+
		"2024-02-01,EU,Alpha,P1,Active,1,2,3,lots,5,6,7,1,1,1,1\n"), ',')
	if err != nil {
		t.Fatal(err)
	}

	_, err = ParseTable(raw, nil)
	var dve *model.DataValidationError
	if !errors.As(err, &dve) {
		t.Fatalf("err = %v, want DataValidationError", err)
	}
	if dve.Field != "actual_cost" || dve.Row != 2 || dve.Value != "lots" {
		t.Errorf("got field=%q row=%d value=%q", dve.Field, dve.Row, dve.Value)
	}
}

func TestParseTable_EmptyCategoryReportsField(t *testing.T) {
	tests := []struct {
		row   string
		field string
	}{
		{"2024-01-01,,Alpha,P1,Active,1,2,3,4,5,6,7,1,1,1,1", "region"},
		{"2024-01-01,EU, ,P1,Active,1,2,3,4,5,6,7,1,1,1,1", "business_unit"},
		{"2024-01-01,EU,Alpha,,Active,1,2,3,4,5,6,7,1,1,1,1", "project"},
		{"2024-01-01,EU,Alpha,P1,,1,2,3,4,5,6,7,1,1,1,1", "status"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			raw, err := ReadDelimited(strings.NewReader(header+"\n"+tt.row+"\n"), ',')
			if err != nil {
				t.Fatal(err)
			}
			recs, err := ParseTable(raw, nil)
			var dve *model.DataValidationError
			if !errors.As(err, &dve) {
				t.Fatalf("err = %v (records %d), want DataValidationError", err, len(recs))
			}
			if dve.Field != tt.field || dve.Row != 1 {
				t.Errorf("got field=%q row=%d, want %q row 1", dve.Field, dve.Row, tt.field)
			}
		})
	}
}

func TestParseTable_RejectsNonFinite(t *testing.T) {
	raw, err := ReadDelimited(strings.NewReader(header+"\n"+
		"2024-01-01,EU,Alpha,P1,Active,NaN,2,3,4,5,6,7,1,1,1,1\n"), ',')
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseTable(raw, nil); !errors.Is(err, model.ErrDataValidation) {
		t.Fatalf("err = %v, want data validation error", err)
	}
}

func TestParseTable_Progress(t *testing.T) {
	var b strings.Builder
	b.WriteString(header + "\n")
	for i := 0; i < 1200; i++ {
		b.WriteString("2024-01-01,EU,Alpha,P1,Active,1,2,3,4,5,6,7,1,1,1,1\n")
	}
	raw, err := ReadDelimited(strings.NewReader(b.String()), ',')
	if err != nil {
		t.Fatal(err)
	}

	var calls []int
	recs, err := ParseTable(raw, func(current, total int) {
		if total != 1200 {
			t.Errorf("total = %d, want 1200", total)
		}
		calls = append(calls, current)
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1200 {
		t.Fatalf("records = %d", len(recs))
	}
	if len(calls) != 3 || calls[len(calls)-1] != 1200 {
		t.Errorf("progress calls = %v, want [500 1000 1200]", calls)
	}
}

func TestParseMonth(t *testing.T) {
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-01", want, false},
		{"2024-03", want, false},
		{"2024-03-01T00:00:00Z", want, false},
		{"2024-03-01 00:00:00", want, false},
		{"03/01/2024", want, false},
		{"Mar 2024", want, false},
		{" March 2024 ", want, false},
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"", time.Time{}, true},
		{"yesterday", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMonth(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMonth(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseMonth(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func FuzzParseMonth(f *testing.F) {
	f.Add("2024-01-01")
	f.Add("Jan 2024")
	f.Add("")
	f.Add("13/45/2024")
	f.Fuzz(func(t *testing.T, s string) {
		got, err := ParseMonth(s)
		if err == nil && (got.Hour() != 0 || got.Location() != time.UTC) {
			t.Errorf("ParseMonth(%q) = %v, want UTC midnight", s, got)
		}
	})
}

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"Business Unit":   "business_unit",
		"FX_Rate":         "fx_rate",
		" price-index ":   "price_index",
		"\ufeffMonth":     "month",
		"Planned_Revenue": "planned_revenue",
	}
	for in, want := range tests {
		if got := NormalizeHeader(in); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	cases := map[string]Format{
		"a.csv":     FormatCSV,
		"a.TSV":     FormatTSV,
		"a.xlsx":    FormatXLSX,
		"a.sqlite3": FormatSQLite,
	}
	for path, want := range cases {
		got, err := DetectFormat(path)
		if err != nil || got != want {
			t.Errorf("DetectFormat(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := DetectFormat("a.json"); !errors.Is(err, model.ErrUnsupportedFormat) {
		t.Errorf("DetectFormat(json) err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestRead_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fin.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	head := strings.Split(header, ",")
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		t.Fatal(err)
	}
	// 45292 is the Excel serial for 2024-01-01.
	row := []any{45292, "EU", "Alpha", "P1", "Active", 1000, 1100.5, 600, 650, 50, 550, 12, 1.1, 1, 1, 1}
	if err := f.SetSheetRow(sheet, "A2", &row); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	res, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(res.Records))
	}
	r := res.Records[0]
	if !r.Month.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Month = %v, want 2024-01-01", r.Month)
	}
	if r.ActualRevenue != 1100.5 {
		t.Errorf("ActualRevenue = %v, want 1100.5", r.ActualRevenue)
	}
}

func TestRead_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fin.db")
	db, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	recs := []model.Record{{
		Month:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Region: "APAC", BusinessUnit: "Gamma", Project: "P9", Status: "Planned",
		PlannedRevenue: 10, ActualRevenue: 12, PlannedCost: 5, ActualCost: 6,
		Headcount: 3, FXRate: 0.9, PriceIndex: 1, VolumeIndex: 1, MixIndex: 1,
	}}
	if err := db.SaveRecords(DefaultTable, recs); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	res, err := Read(path, Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].Project != "P9" || res.Records[0].FXRate != 0.9 {
		t.Errorf("records = %+v", res.Records)
	}
}

func TestColumnKeysMatchStoreLayout(t *testing.T) {
	keys := ColumnKeys()
	if len(keys) != len(store.RecordColumns) {
		t.Fatalf("len = %d, store has %d", len(keys), len(store.RecordColumns))
	}
	for i, k := range keys {
		if store.RecordColumns[i].Name != k {
			t.Errorf("column %d: %q vs store %q", i, k, store.RecordColumns[i].Name)
		}
	}
}
