// internal/repository/postgres/oplog_repository.go
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samhanlabs/gmvboard/internal/domain"
)

// OperationLogRepository appends to the audit trail of data-changing
// operations. The table is append-only; nothing here mutates or deletes.
type OperationLogRepository struct {
	db *DB
}

func NewOperationLogRepository(db *DB) *OperationLogRepository {
	return &OperationLogRepository{db: db}
}

func (r *OperationLogRepository) Append(ctx context.Context, entry *domain.OperationLogEntry) error {
	details := []byte("{}")
	if len(entry.Details) > 0 {
		encoded, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshal operation log details: %w", err)
		}
		details = encoded
	}

	query := `
		INSERT INTO operation_logs (kind, report_date, actor, details, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	if _, err := r.db.ExecContext(ctx, query, entry.Kind, entry.ReportDate, entry.Actor, details); err != nil {
		return fmt.Errorf("failed to append operation log: %w", err)
	}
	return nil
}

// Recent returns the latest audit entries for the activity feed.
func (r *OperationLogRepository) Recent(ctx context.Context, limit int) ([]domain.OperationLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryxContext(ctx, `
		SELECT id, kind, to_char(report_date, 'YYYY-MM-DD') AS report_date,
		       actor, details, created_at
		FROM operation_logs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list operation logs: %w", err)
	}
	defer rows.Close()

	entries := []domain.OperationLogEntry{}
	for rows.Next() {
		var entry domain.OperationLogEntry
		var raw []byte
		if err := rows.Scan(&entry.ID, &entry.Kind, &entry.ReportDate, &entry.Actor, &raw, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan operation log: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &entry.Details); err != nil {
				return nil, fmt.Errorf("failed to decode operation log details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
