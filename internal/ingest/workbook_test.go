package ingest

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return &buf
}

func TestReadWorkbook(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Campaign ID", "Campaign name", "Cost", "Gross Revenue"},
		{"101", "[Samhan] Oct Live", "RM 1,000", "RM 5,000"},
		{"", "", "", ""}, // blank rows are skipped
		{"102", "[Samhan] Nov Live", "200", "900"},
	})

	rows, err := ReadWorkbook(buf)
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0]["Campaign ID"] != "101" {
		t.Errorf("first row id = %v", rows[0]["Campaign ID"])
	}
	if rows[1]["Campaign name"] != "[Samhan] Nov Live" {
		t.Errorf("second row name = %v", rows[1]["Campaign name"])
	}
}

func TestReadWorkbookShortRows(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Campaign ID", "Campaign name", "Cost"},
		{"101", "[A] Short"},
	})

	rows, err := ReadWorkbook(buf)
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	if got := rows[0]["Cost"]; got != "" {
		t.Errorf("missing trailing cell should read as empty, got %v", got)
	}
}

func TestReadWorkbookNoDataRows(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Campaign ID", "Campaign name"},
	})

	if _, err := ReadWorkbook(buf); err == nil {
		t.Fatal("expected error for header-only workbook")
	}
}

func TestReadWorkbookGarbage(t *testing.T) {
	if _, err := ReadWorkbook(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Fatal("expected error for unreadable input")
	}
}

func TestReadWorkbookEndToEnd(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Campaign ID", "Campaign Name", "Cost", "Net Cost", "Live Views", "Orders (SKU)", "Gross Revenue", "ROI"},
		{"42", "[Samhan] Mega Live", "RM 1,234.50", "RM 1,000", "9000", "120", "RM 6,000", "4.86"},
	})

	raw, err := ReadWorkbook(buf)
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}

	batch, rej := NewProcessor(DefaultVocabulary(), LiveStrategy()).Process(raw, "2026-08-31")
	if rej != nil {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
	if len(batch.Records) != 1 {
		t.Fatalf("records = %d", len(batch.Records))
	}
	rec := batch.Records[0]
	if rec.CampaignID != 42 || rec.CampaignGroup != "Samhan" || rec.Cost != 1234.5 || rec.Currency != "MYR" {
		t.Errorf("record = %+v", rec)
	}
}
