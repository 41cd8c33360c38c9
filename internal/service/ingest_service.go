// internal/service/ingest_service.go
package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/samhanlabs/gmvboard/internal/cache"
	"github.com/samhanlabs/gmvboard/internal/domain"
	"github.com/samhanlabs/gmvboard/internal/ingest"
	"github.com/samhanlabs/gmvboard/internal/storage"
)

// CampaignStore is the storage collaborator of the ingestion pipeline.
type CampaignStore interface {
	WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error
	Upsert(ctx context.Context, tx *sqlx.Tx, rec *domain.CampaignRecord) (bool, error)
	DeleteByDate(ctx context.Context, reportDate string, typ domain.CampaignType) (int64, error)
}

// OperationLogger appends audit entries. Failures are swallowed by the
// service; auditing must never fail an ingestion.
type OperationLogger interface {
	Append(ctx context.Context, entry *domain.OperationLogEntry) error
}

// RejectionError carries a batch-level rejection to the HTTP layer, which
// maps it to a 400. Any other error from the service is a storage failure.
type RejectionError struct {
	Reason    string
	Errors    []string
	Conflicts []string
}

func (e *RejectionError) Error() string { return e.Reason }

type IngestService struct {
	voc     ingest.Vocabulary
	store   CampaignStore
	oplog   OperationLogger
	cache   cache.DashboardCache
	archive storage.ObjectStorage
}

// NewIngestService wires the pipeline to its collaborators. archive may be
// nil when upload archiving is disabled.
func NewIngestService(voc ingest.Vocabulary, store CampaignStore, oplog OperationLogger, c cache.DashboardCache, archive storage.ObjectStorage) *IngestService {
	if c == nil {
		c = cache.NewNoopDashboardCache()
	}
	return &IngestService{voc: voc, store: store, oplog: oplog, cache: c, archive: archive}
}

func strategyFor(typ domain.CampaignType) (ingest.Strategy, error) {
	switch typ {
	case domain.CampaignTypeLive:
		return ingest.LiveStrategy(), nil
	case domain.CampaignTypeProduct:
		return ingest.ProductStrategy(), nil
	default:
		return ingest.Strategy{}, fmt.Errorf("unknown campaign type %q", typ)
	}
}

// IngestWorkbook runs one uploaded spreadsheet through the full pipeline.
func (s *IngestService) IngestWorkbook(ctx context.Context, typ domain.CampaignType, reportDate string, file []byte, filename, actor string) (*ingest.Result, error) {
	if err := ingest.ValidateReportDate(reportDate); err != nil {
		return nil, &RejectionError{Reason: err.Error()}
	}
	if len(file) == 0 {
		return nil, &RejectionError{Reason: "uploaded file is empty"}
	}

	rows, err := ingest.ReadWorkbook(bytes.NewReader(file))
	if err != nil {
		return nil, &RejectionError{Reason: err.Error()}
	}

	kind := domain.OperationUpload
	result, err := s.ingestRows(ctx, typ, reportDate, rows, actor, filename, kind)
	if err != nil {
		return nil, err
	}

	s.archiveWorkbook(ctx, typ, reportDate, filename, file)
	return result, nil
}

// IngestRows is the manual-entry path: pre-structured rows skip the
// spreadsheet concerns but still run group defaulting and validation.
func (s *IngestService) IngestRows(ctx context.Context, typ domain.CampaignType, reportDate string, rows []ingest.RawRow, actor string) (*ingest.Result, error) {
	if err := ingest.ValidateReportDate(reportDate); err != nil {
		return nil, &RejectionError{Reason: err.Error()}
	}
	if len(rows) == 0 {
		return nil, &RejectionError{Reason: "no rows provided"}
	}
	return s.ingestRows(ctx, typ, reportDate, rows, actor, "manual entry", domain.OperationManualEntry)
}

func (s *IngestService) ingestRows(ctx context.Context, typ domain.CampaignType, reportDate string, rows []ingest.RawRow, actor, source string, kind domain.OperationKind) (*ingest.Result, error) {
	strat, err := strategyFor(typ)
	if err != nil {
		return nil, &RejectionError{Reason: err.Error()}
	}

	batch, rej := ingest.NewProcessor(s.voc, strat).Process(rows, reportDate)
	if rej != nil {
		return nil, &RejectionError{Reason: rej.Reason, Errors: rej.Errors, Conflicts: rej.Conflicts}
	}

	result := &ingest.Result{
		Errors:   batch.Errors,
		Warnings: batch.Warnings,
	}

	// One transaction per batch, rows written sequentially: any storage
	// error rolls everything back and nothing partial is committed.
	err = s.store.WithTx(ctx, func(tx *sqlx.Tx) error {
		for i := range batch.Records {
			rec := &batch.Records[i]
			rec.UploadedBy = actor
			inserted, err := s.store.Upsert(ctx, tx, rec)
			if err != nil {
				return err
			}
			if inserted {
				result.Inserted++
			} else {
				result.Updated++
			}
			result.Processed++
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch write failed: %w", err)
	}

	if kind == domain.OperationUpload && result.Inserted == 0 && result.Updated > 0 {
		kind = domain.OperationUpdate
	}
	s.appendLog(ctx, kind, reportDate, actor, map[string]any{
		"campaign_type":     typ,
		"source":            source,
		"records_processed": result.Processed,
		"records_inserted":  result.Inserted,
		"records_updated":   result.Updated,
		"errors":            result.Errors,
		"warnings":          result.Warnings,
	})
	s.invalidateCache(ctx)

	return result, nil
}

// DeleteByDate removes a date's records and audits the deletion.
func (s *IngestService) DeleteByDate(ctx context.Context, reportDate string, typ domain.CampaignType, actor string) (int64, error) {
	if err := ingest.ValidateReportDate(reportDate); err != nil {
		return 0, &RejectionError{Reason: err.Error()}
	}
	if typ != "" {
		if _, err := strategyFor(typ); err != nil {
			return 0, &RejectionError{Reason: err.Error()}
		}
	}

	n, err := s.store.DeleteByDate(ctx, reportDate, typ)
	if err != nil {
		return 0, fmt.Errorf("delete failed: %w", err)
	}

	s.appendLog(ctx, domain.OperationDelete, reportDate, actor, map[string]any{
		"campaign_type":   typ,
		"records_deleted": n,
	})
	s.invalidateCache(ctx)

	return n, nil
}

func (s *IngestService) appendLog(ctx context.Context, kind domain.OperationKind, reportDate, actor string, details map[string]any) {
	if s.oplog == nil {
		return
	}
	entry := &domain.OperationLogEntry{
		Kind:       kind,
		ReportDate: reportDate,
		Actor:      actor,
		Details:    details,
	}
	if err := s.oplog.Append(ctx, entry); err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Msg("failed to append operation log")
	}
}

func (s *IngestService) invalidateCache(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Error().Err(err).Msg("failed to invalidate dashboard cache")
	}
}

func (s *IngestService) archiveWorkbook(ctx context.Context, typ domain.CampaignType, reportDate, filename string, file []byte) {
	if s.archive == nil {
		return
	}
	key := fmt.Sprintf("%s/%s/%s", strings.ToLower(string(typ)), reportDate, filename)
	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if err := s.archive.UploadObject(ctx, key, file, contentType); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to archive uploaded workbook")
	}
}
