package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/samhanlabs/gmvboard/internal/domain"
	"github.com/samhanlabs/gmvboard/internal/ingest"
)

// buildTestWorkbook renders the same three campaigns as liveRows into a
// real xlsx so the upload path is exercised end to end.
func buildTestWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Campaign ID", "Campaign Name", "Cost", "Gross Revenue"},
		{"1", "[Samhan] Oct Live", "RM 100", "RM 500"},
		{"2", "[Samhan] Nov Live", "RM 200", "RM 900"},
		{"3", "[Beauty] Flash", "50", "120"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// fakeStore keeps records in memory and only commits staged writes when
// the transaction callback succeeds, mirroring the rollback contract.
type fakeStore struct {
	records map[string]domain.CampaignRecord
	staging map[string]domain.CampaignRecord
	failID  int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[string]domain.CampaignRecord{}}
}

func recordKey(id int64, date string) string {
	return fmt.Sprintf("%d|%s", id, date)
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	f.staging = make(map[string]domain.CampaignRecord, len(f.records))
	for k, v := range f.records {
		f.staging[k] = v
	}
	if err := fn(nil); err != nil {
		f.staging = nil
		return err
	}
	f.records = f.staging
	f.staging = nil
	return nil
}

func (f *fakeStore) Upsert(_ context.Context, _ *sqlx.Tx, rec *domain.CampaignRecord) (bool, error) {
	if f.failID != 0 && rec.CampaignID == f.failID {
		return false, errors.New("storage blew up")
	}
	key := recordKey(rec.CampaignID, rec.ReportDate)
	_, exists := f.staging[key]
	f.staging[key] = *rec
	return !exists, nil
}

func (f *fakeStore) DeleteByDate(_ context.Context, reportDate string, typ domain.CampaignType) (int64, error) {
	var n int64
	for k, v := range f.records {
		if v.ReportDate != reportDate {
			continue
		}
		if typ != "" && v.CampaignType != typ {
			continue
		}
		delete(f.records, k)
		n++
	}
	return n, nil
}

type fakeOplog struct {
	entries []domain.OperationLogEntry
	fail    bool
}

func (f *fakeOplog) Append(_ context.Context, entry *domain.OperationLogEntry) error {
	if f.fail {
		return errors.New("audit table unavailable")
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func liveRows() []ingest.RawRow {
	return []ingest.RawRow{
		{"campaign_id": "1", "campaign_name": "[Samhan] Oct Live", "cost": "RM 100", "gross_revenue": "RM 500"},
		{"campaign_id": "2", "campaign_name": "[Samhan] Nov Live", "cost": "RM 200", "gross_revenue": "RM 900"},
		{"campaign_id": "3", "campaign_name": "[Beauty] Flash", "cost": "50", "gross_revenue": "120"},
	}
}

func newTestService(store *fakeStore, oplog *fakeOplog) *IngestService {
	return NewIngestService(ingest.DefaultVocabulary(), store, oplog, nil, nil)
}

func TestIngestRowsInsertThenUpdate(t *testing.T) {
	store := newFakeStore()
	oplog := &fakeOplog{}
	svc := newTestService(store, oplog)
	ctx := context.Background()

	result, err := svc.IngestRows(ctx, domain.CampaignTypeLive, "2026-08-31", liveRows(), "ops@samhanlabs.com")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 3, result.Inserted)
	assert.Equal(t, 0, result.Updated)
	assert.Len(t, store.records, 3)

	// Same batch again: idempotent, everything becomes an update.
	result, err = svc.IngestRows(ctx, domain.CampaignTypeLive, "2026-08-31", liveRows(), "ops@samhanlabs.com")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 3, result.Updated)
	assert.Len(t, store.records, 3)

	rec := store.records[recordKey(1, "2026-08-31")]
	assert.Equal(t, "Samhan", rec.CampaignGroup)
	assert.Equal(t, "ops@samhanlabs.com", rec.UploadedBy)
	assert.Equal(t, 100.0, rec.Cost)
	assert.Equal(t, "MYR", rec.Currency)
}

func TestIngestMixedInsertUpdateAccounting(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeOplog{})
	ctx := context.Background()

	_, err := svc.IngestRows(ctx, domain.CampaignTypeLive, "2026-08-31", liveRows(), "ops")
	require.NoError(t, err)

	rows := append(liveRows(),
		ingest.RawRow{"campaign_id": "4", "campaign_name": "[Samhan] New", "cost": "1"},
		ingest.RawRow{"campaign_id": "5", "campaign_name": "[Samhan] Newer", "cost": "2"},
	)
	result, err := svc.IngestRows(ctx, domain.CampaignTypeLive, "2026-08-31", rows, "ops")
	require.NoError(t, err)
	assert.Equal(t, 5, result.Processed)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 3, result.Updated)
}

func TestIngestConflictWritesNothing(t *testing.T) {
	store := newFakeStore()
	oplog := &fakeOplog{}
	svc := newTestService(store, oplog)

	rows := []ingest.RawRow{
		{"campaign_id": "42", "campaign_name": "[A] first", "cost": "1"},
		{"campaign_id": "42", "campaign_name": "[B] second", "cost": "2"},
	}

	_, err := svc.IngestRows(context.Background(), domain.CampaignTypeLive, "2026-08-31", rows, "ops")
	require.Error(t, err)

	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	require.Len(t, rej.Conflicts, 1)
	assert.Contains(t, rej.Conflicts[0], "42")
	assert.Empty(t, store.records, "a conflicting batch must write nothing")
	assert.Empty(t, oplog.entries, "a rejected batch is not audited")
}

func TestIngestZeroValidRowsRejected(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeOplog{})

	rows := []ingest.RawRow{
		{"campaign_name": "[A] missing id"},
	}
	_, err := svc.IngestRows(context.Background(), domain.CampaignTypeLive, "2026-08-31", rows, "ops")

	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
	assert.Len(t, rej.Errors, 1)
}

func TestIngestInvalidReportDate(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeOplog{})

	_, err := svc.IngestRows(context.Background(), domain.CampaignTypeLive, "31/08/2026", liveRows(), "ops")

	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
}

func TestIngestStorageErrorRollsBack(t *testing.T) {
	store := newFakeStore()
	store.failID = 3
	svc := newTestService(store, &fakeOplog{})

	_, err := svc.IngestRows(context.Background(), domain.CampaignTypeLive, "2026-08-31", liveRows(), "ops")
	require.Error(t, err)

	var rej *RejectionError
	assert.False(t, errors.As(err, &rej), "storage failures are not rejections")
	assert.Empty(t, store.records, "failed batch must roll back fully")
}

func TestAuditKindInference(t *testing.T) {
	store := newFakeStore()
	oplog := &fakeOplog{}
	svc := newTestService(store, oplog)
	ctx := context.Background()

	_, err := svc.IngestRows(ctx, domain.CampaignTypeProduct, "2026-08-31",
		[]ingest.RawRow{{"campaign_id": "9", "campaign_name": "Serum"}}, "ops")
	require.NoError(t, err)

	_, err = svc.DeleteByDate(ctx, "2026-08-31", domain.CampaignTypeProduct, "ops")
	require.NoError(t, err)

	require.Len(t, oplog.entries, 2)
	assert.Equal(t, domain.OperationManualEntry, oplog.entries[0].Kind)
	assert.Equal(t, domain.OperationDelete, oplog.entries[1].Kind)
	assert.Equal(t, int64(1), oplog.entries[1].Details["records_deleted"])
}

func TestUploadKindBecomesUpdateOnPureReupload(t *testing.T) {
	store := newFakeStore()
	oplog := &fakeOplog{}
	svc := newTestService(store, oplog)
	ctx := context.Background()

	// Seed directly so the upload path sees only existing rows.
	_, err := svc.IngestRows(ctx, domain.CampaignTypeLive, "2026-08-31", liveRows(), "ops")
	require.NoError(t, err)

	workbook := buildTestWorkbook(t)
	result, err := svc.IngestWorkbook(ctx, domain.CampaignTypeLive, "2026-08-31", workbook, "report.xlsx", "ops")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 3, result.Updated)

	last := oplog.entries[len(oplog.entries)-1]
	assert.Equal(t, domain.OperationUpdate, last.Kind)
	assert.Equal(t, "report.xlsx", last.Details["source"])
}

func TestAuditFailureDoesNotFailIngestion(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeOplog{fail: true})

	result, err := svc.IngestRows(context.Background(), domain.CampaignTypeLive, "2026-08-31", liveRows(), "ops")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Inserted)
}

func TestIngestUnknownCampaignType(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeOplog{})

	_, err := svc.IngestRows(context.Background(), domain.CampaignType("BANNER"), "2026-08-31", liveRows(), "ops")

	var rej *RejectionError
	require.ErrorAs(t, err, &rej)
}
