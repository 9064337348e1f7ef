package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"warburtonsos/internal/blob"
	"warburtonsos/internal/view"
	"warburtonsos/pkg/domain"
)

var generated = time.Date(2024, 3, 12, 14, 5, 9, 0, time.UTC)

func repairsTable() view.Table {
	return view.Repairs.Project([]domain.Repair{
		{ID: "1", Equipment: "Oven 3", Issue: "Burner fault", Priority: domain.PriorityCritical, Status: domain.RepairPending, ReportedDate: "2024-03-10T08:00:00.000Z", Parts: []string{}},
		{ID: "2", Equipment: "Slicer", Issue: "Blade dull", Priority: domain.PriorityLow, Status: domain.RepairCompleted, ReportedDate: "2024-03-01T08:00:00.000Z", Parts: []string{}},
	})
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
	}{{"", FormatHTML}, {"HTML", FormatHTML}, {"csv", FormatCSV}, {" xlsx ", FormatXLSX}}
	for _, c := range cases {
		got, err := ParseFormat(c.in)
		if err != nil || got != c.want {
			t.Fatalf("ParseFormat(%q) = %q, %v", c.in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Fatalf("expected pdf to be rejected")
	}
	if FormatXLSX.Extension() != "xlsx" || !strings.HasPrefix(FormatCSV.ContentType(), "text/csv") {
		t.Fatalf("unexpected format metadata")
	}
}

func TestRenderHTMLPrintDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, repairsTable(), generated); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"<title>Engineering Repairs Report</title>",
		"<h1>Engineering Repairs Report</h1>",
		"Generated: 12/03/2024, 14:05:09",
		"Critical Issues: 1",
		"Completed Repairs: 1",
		`onload="window.print()"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("print document missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCSVWritesHeaderAndRows(t *testing.T) {
	table := repairsTable()
	var buf bytes.Buffer
	if err := RenderCSV(&buf, table); err != nil {
		t.Fatalf("RenderCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != table.Columns[0].Header {
		t.Fatalf("unexpected header %v", records[0])
	}
	if records[1][0] != "Oven 3" {
		t.Fatalf("unexpected first row %v", records[1])
	}
}

func TestRenderXLSXRoundTrip(t *testing.T) {
	table := repairsTable()
	var buf bytes.Buffer
	if err := RenderXLSX(&buf, table, generated); err != nil {
		t.Fatalf("RenderXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(0)
	if sheet != "Engineering Repairs" {
		t.Fatalf("unexpected sheet %q", sheet)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if rows[0][0] != "Engineering Repairs Report" {
		t.Fatalf("unexpected title row %v", rows[0])
	}
	if rows[1][0] != "Generated: 12/03/2024, 14:05:09" {
		t.Fatalf("unexpected generated row %v", rows[1])
	}
	var sawOven bool
	for _, r := range rows {
		if len(r) > 0 && r[0] == "Oven 3" {
			sawOven = true
		}
	}
	if !sawOven {
		t.Fatalf("data row missing: %v", rows)
	}
}

func TestRenderDispatchesByFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, repairsTable(), FormatCSV, generated); err != nil {
		t.Fatalf("Render csv: %v", err)
	}
	if strings.Contains(buf.String(), "<html") {
		t.Fatalf("csv output contains html")
	}
	if err := Render(io.Discard, repairsTable(), Format("pdf"), generated); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if got := Filename(repairsTable(), FormatXLSX, generated); got != "engineering-repairs-20240312T140509Z.xlsx" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestArchiveSaveAndList(t *testing.T) {
	ctx := context.Background()
	archive := NewArchive(blob.NewMemory(), nil)
	archive.now = func() time.Time { return generated }
	table := repairsTable()

	info, err := archive.Save(ctx, table, FormatCSV, []byte("a,b\n"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(info.Key, "reports/engineering-repairs/20240312T140509Z-") || !strings.HasSuffix(info.Key, ".csv") {
		t.Fatalf("unexpected key %q", info.Key)
	}
	if _, err := archive.Save(ctx, view.Table{App: domain.AppKPI, Title: "KPI Dashboard"}, FormatHTML, []byte("<html></html>")); err != nil {
		t.Fatalf("Save kpi: %v", err)
	}
	repairs, err := archive.List(ctx, domain.AppEngineeringRepairs)
	if err != nil || len(repairs) != 1 {
		t.Fatalf("expected one repairs report, got %v err=%v", repairs, err)
	}
	if repairs[0].Metadata["rows"] != "2" || repairs[0].ContentType != "text/csv" {
		t.Fatalf("unexpected metadata %+v", repairs[0])
	}
	all, err := archive.List(ctx, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected two reports, got %d err=%v", len(all), err)
	}
}

type failingStore struct{ blob.Store }

func (failingStore) Put(context.Context, string, io.Reader, blob.PutOptions) (blob.Info, error) {
	return blob.Info{}, errors.New("bucket offline")
}

func TestSaveQuietlySwallowsFailures(t *testing.T) {
	archive := NewArchive(failingStore{blob.NewMemory()}, nil)
	archive.SaveQuietly(context.Background(), repairsTable(), FormatHTML, []byte("x"))
	if _, err := archive.Save(context.Background(), repairsTable(), FormatHTML, []byte("x")); err == nil || !strings.Contains(err.Error(), "bucket offline") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	var nilArchive *Archive
	nilArchive.SaveQuietly(context.Background(), repairsTable(), FormatHTML, nil)
}
