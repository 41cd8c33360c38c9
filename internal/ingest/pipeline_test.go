package ingest

import (
	"strings"
	"testing"

	"github.com/samhanlabs/gmvboard/internal/domain"
)

func liveProcessor() *Processor {
	return NewProcessor(DefaultVocabulary(), LiveStrategy())
}

func productProcessor() *Processor {
	return NewProcessor(DefaultVocabulary(), ProductStrategy())
}

func TestValidateReportDate(t *testing.T) {
	if err := ValidateReportDate("2026-08-31"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	for _, bad := range []string{"", "31-08-2026", "2026/08/31", "2026-13-45", "yesterday"} {
		if err := ValidateReportDate(bad); err == nil {
			t.Errorf("ValidateReportDate(%q) accepted", bad)
		}
	}
}

func TestProcessLiveBatch(t *testing.T) {
	rows := []RawRow{
		{
			"Campaign ID":   "101",
			"Campaign name": "[Samhan] Oct Live",
			"Cost":          "RM 1,000.50",
			"Net cost":      "RM 900",
			"Live views":    "1500.9",
			"Orders (SKU)":  "25",
			"Gross Revenue": "RM 5,000",
			"ROI":           "5.0",
		},
		{
			"Campaign ID":   "102",
			"Campaign name": "Samhan Promo Oct",
			"Cost":          "200",
		},
	}

	// Second row has no marker; "Samhan" is not a known base name yet
	// because the first name is multi-word, so seed it via a single-word row.
	rows = append([]RawRow{{
		"Campaign ID":   "100",
		"Campaign name": "Samhan",
		"Cost":          "50",
	}}, rows...)

	batch, rej := liveProcessor().Process(rows, "2026-08-31")
	if rej != nil {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
	if len(batch.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(batch.Records))
	}
	if len(batch.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", batch.Errors)
	}

	seed := batch.Records[0]
	if seed.CampaignGroup != "Samhan" {
		t.Errorf("seed group = %q", seed.CampaignGroup)
	}
	if seed.CampaignName != "[Samhan] Samhan" {
		t.Errorf("unmarked live name not normalized: %q", seed.CampaignName)
	}

	rec := batch.Records[1]
	if rec.CampaignID != 101 || rec.CampaignGroup != "Samhan" {
		t.Errorf("record = %+v", rec)
	}
	if rec.CampaignName != "[Samhan] Oct Live" {
		t.Errorf("marked name must be kept verbatim: %q", rec.CampaignName)
	}
	if rec.Cost != 1000.5 || rec.NetCost != 900 || rec.GrossRevenue != 5000 || rec.ROI != 5 {
		t.Errorf("measures = %+v", rec)
	}
	if rec.LiveViews != 1500 {
		t.Errorf("live views = %d, want floored 1500", rec.LiveViews)
	}
	if rec.OrdersSKU != 25 {
		t.Errorf("orders = %d", rec.OrdersSKU)
	}
	if rec.Currency != "MYR" {
		t.Errorf("currency = %q", rec.Currency)
	}
	if rec.CampaignType != domain.CampaignTypeLive {
		t.Errorf("type = %q", rec.CampaignType)
	}
	if rec.ReportDate != "2026-08-31" {
		t.Errorf("report date = %q", rec.ReportDate)
	}

	fallback := batch.Records[2]
	if fallback.CampaignGroup != "Samhan" {
		t.Errorf("fallback group = %q, want Samhan", fallback.CampaignGroup)
	}
}

func TestProcessRowErrorsAreSkippedNotFatal(t *testing.T) {
	rows := []RawRow{
		{"Campaign name": "[A] no id", "Cost": "1"},
		{"Campaign ID": "0", "Campaign name": "[A] zero id"},
		{"Campaign ID": "5", "Cost": "1"},
		{"Campaign ID": "6", "Campaign name": "Totally Ambiguous Name"},
		{"Campaign ID": "7", "Campaign name": "[A] valid", "Cost": "10"},
	}

	batch, rej := liveProcessor().Process(rows, "2026-08-31")
	if rej != nil {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
	if len(batch.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(batch.Records))
	}
	if len(batch.Errors) != 4 {
		t.Fatalf("errors = %v, want 4", batch.Errors)
	}
	for i, frag := range []string{"missing campaign id", "invalid campaign id", "missing campaign name", "no group marker"} {
		if !strings.Contains(batch.Errors[i], frag) {
			t.Errorf("errors[%d] = %q, want it to mention %q", i, batch.Errors[i], frag)
		}
	}
}

func TestProcessConflictRejectsWholeBatch(t *testing.T) {
	rows := []RawRow{
		{"Campaign ID": "42", "Campaign name": "[A] first", "Cost": "1"},
		{"Campaign ID": "42", "Campaign name": "[B] second", "Cost": "2"},
		{"Campaign ID": "7", "Campaign name": "[C] fine", "Cost": "3"},
	}

	batch, rej := liveProcessor().Process(rows, "2026-08-31")
	if batch != nil {
		t.Fatal("expected nil batch on conflict")
	}
	if rej == nil {
		t.Fatal("expected rejection")
	}
	if len(rej.Conflicts) != 1 {
		t.Fatalf("conflicts = %v, want exactly one", rej.Conflicts)
	}
	for _, frag := range []string{"42", `"A"`, `"B"`} {
		if !strings.Contains(rej.Conflicts[0], frag) {
			t.Errorf("conflict %q missing %s", rej.Conflicts[0], frag)
		}
	}
}

func TestProcessDuplicateIDSameGroupIsNotAConflict(t *testing.T) {
	rows := []RawRow{
		{"Campaign ID": "42", "Campaign name": "[A] first", "Cost": "1"},
		{"Campaign ID": "42", "Campaign name": "[A] second", "Cost": "2"},
	}

	batch, rej := liveProcessor().Process(rows, "2026-08-31")
	if rej != nil {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
	if len(batch.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(batch.Records))
	}
}

func TestProcessZeroValidRowsRejected(t *testing.T) {
	rows := []RawRow{
		{"Campaign name": "[A] no id"},
		{"Campaign ID": "nope", "Campaign name": "[A] bad id"},
	}

	batch, rej := liveProcessor().Process(rows, "2026-08-31")
	if batch != nil {
		t.Fatal("expected nil batch")
	}
	if rej == nil || len(rej.Errors) != 2 {
		t.Fatalf("rejection = %+v, want 2 errors", rej)
	}
}

func TestProcessMultiMarkerWarning(t *testing.T) {
	rows := []RawRow{
		{"Campaign ID": "1", "Campaign name": "[A] (B) {C} Campaign", "Cost": "1"},
	}

	batch, rej := liveProcessor().Process(rows, "2026-08-31")
	if rej != nil {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
	if len(batch.Warnings) != 1 {
		t.Fatalf("warnings = %v, want 1", batch.Warnings)
	}
	if batch.Records[0].CampaignGroup != "A" {
		t.Errorf("group = %q, want A", batch.Records[0].CampaignGroup)
	}
}

func TestProcessProductStrategy(t *testing.T) {
	rows := []RawRow{
		{"Campaign ID": "1", "Campaign name": "Multi Word Product Name", "Gross Revenue": "100"},
		{"Campaign ID": "2", "Campaign name": "Another Product", "Campaign Group": "Wellness"},
	}

	batch, rej := productProcessor().Process(rows, "2026-08-31")
	if rej != nil {
		t.Fatalf("unexpected rejection: %+v", rej)
	}
	if len(batch.Records) != 2 {
		t.Fatalf("records = %d", len(batch.Records))
	}

	// No bracket grammar: group defaults to the campaign name.
	if got := batch.Records[0]; got.CampaignGroup != "Multi Word Product Name" {
		t.Errorf("group = %q", got.CampaignGroup)
	}
	if got := batch.Records[0]; got.CampaignName != "Multi Word Product Name" {
		t.Errorf("product names are never rewritten, got %q", got.CampaignName)
	}
	if got := batch.Records[0]; got.CampaignType != domain.CampaignTypeProduct {
		t.Errorf("type = %q", got.CampaignType)
	}
	if got := batch.Records[0]; got.LiveViews != 0 {
		t.Errorf("product rows must not carry live views, got %d", got.LiveViews)
	}

	// Explicit campaign_group column wins over the name.
	if got := batch.Records[1]; got.CampaignGroup != "Wellness" {
		t.Errorf("explicit group = %q, want Wellness", got.CampaignGroup)
	}
}
