package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/pvmdash/internal/model"
	"github.com/theirongolddev/pvmdash/internal/pipeline"
	"github.com/theirongolddev/pvmdash/internal/store"
)

func twelveRows(t *testing.T) []model.Record {
	t.Helper()
	recs := make([]model.Record, 12)
	for i := range recs {
		recs[i] = model.Record{
			Month:          time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
			PlannedRevenue: 100, ActualRevenue: 110 + float64(i),
			PlannedCost: 80, ActualCost: 85,
			CapEx: 10 * float64(i), PriceIndex: 1, VolumeIndex: 1, MixIndex: 1,
		}
	}
	out, err := pipeline.Derive(recs)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestBuild_ProfitCapEx(t *testing.T) {
	tbl, err := Build(twelveRows(t), []string{"Profit", "CapEx"})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(tbl.Headers, ","); got != "month,Profit,CapEx" {
		t.Errorf("headers = %q", got)
	}
	if tbl.Len() != 12 {
		t.Fatalf("rows = %d, want 12", tbl.Len())
	}
	if tbl.Values[3][0] != 28 || tbl.Values[3][1] != 30 {
		t.Errorf("row 3 = %v, want [28 30]", tbl.Values[3])
	}
}

func TestBuild_CanonicalNames(t *testing.T) {
	tbl, err := Build(twelveRows(t), []string{"pvm_impact", "fx rate"})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Headers[1] != "PVM_Impact" || tbl.Headers[2] != "FX_Rate" {
		t.Errorf("headers = %v", tbl.Headers)
	}
}

func TestBuild_Errors(t *testing.T) {
	if _, err := Build(twelveRows(t), nil); !errors.Is(err, model.ErrNoKPIs) {
		t.Errorf("no KPIs err = %v", err)
	}
	if _, err := Build(twelveRows(t), []string{"Profit", "Margin"}); !errors.Is(err, model.ErrUnknownKPI) {
		t.Errorf("unknown KPI err = %v", err)
	}
}

func TestWriteCSV(t *testing.T) {
	tbl, err := Build(twelveRows(t), []string{"Profit", "CapEx"})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatal(err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 13 {
		t.Fatalf("csv rows = %d, want 13", len(rows))
	}
	if strings.Join(rows[1], ",") != "2024-01-01,25,0" {
		t.Errorf("first data row = %v", rows[1])
	}
}

func TestBuild_DropsRepeatedKPIs(t *testing.T) {
	tbl, err := Build(twelveRows(t), []string{"Profit", "profit", "CapEx", " PROFIT "})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(tbl.Headers, ","); got != "month,Profit,CapEx" {
		t.Fatalf("headers = %q, want month,Profit,CapEx", got)
	}
	if len(tbl.Values[0]) != 2 {
		t.Fatalf("row width = %d, want 2", len(tbl.Values[0]))
	}

	path := filepath.Join(t.TempDir(), "kpi.db")
	if err := Write(path, tbl); err != nil {
		t.Fatalf("sqlite write with repeated names: %v", err)
	}
}

func TestWrite_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kpi.xlsx")
	tbl, err := Build(twelveRows(t), []string{"Profit", "CapEx"})
	if err != nil {
		t.Fatal(err)
	}
	if err := Write(path, tbl); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 13 {
		t.Fatalf("sheet rows = %d, want 13", len(rows))
	}
	if strings.Join(rows[0], ",") != "month,Profit,CapEx" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[12][0] != "2024-12-01" {
		t.Errorf("last month = %q", rows[12][0])
	}
}

func TestWrite_SQLiteReplacesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kpi.db")
	recs := twelveRows(t)

	first, _ := Build(recs, []string{"Profit", "CapEx", "OpEx"})
	if err := Write(path, first); err != nil {
		t.Fatal(err)
	}
	second, _ := Build(recs[:4], []string{"Profit", "CapEx"})
	if err := Write(path, second); err != nil {
		t.Fatal(err)
	}

	db, err := store.OpenReadOnly(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	header, rows, err := db.ReadTable(TableName)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(header, ",") != "month,Profit,CapEx" || len(rows) != 4 {
		t.Errorf("header=%v rows=%d", header, len(rows))
	}
}

func TestDetectFormat(t *testing.T) {
	for path, want := range map[string]Format{"-": FormatCSV, "a.CSV": FormatCSV, "b.xlsx": FormatXLSX, "c.db": FormatSQLite} {
		got, err := DetectFormat(path)
		if err != nil || got != want {
			t.Errorf("DetectFormat(%q) = %q, %v", path, got, err)
		}
	}
	if _, err := DetectFormat("out.parquet"); !errors.Is(err, model.ErrUnsupportedFormat) {
		t.Errorf("parquet err = %v", err)
	}
}
