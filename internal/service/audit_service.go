// internal/service/audit_service.go
package service

import (
	"context"
	"fmt"

	"github.com/samhanlabs/gmvboard/internal/domain"
)

// OperationLogReader is the read side of the audit trail.
type OperationLogReader interface {
	Recent(ctx context.Context, limit int) ([]domain.OperationLogEntry, error)
}

type AuditService struct {
	repo OperationLogReader
}

func NewAuditService(repo OperationLogReader) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) RecentOperations(ctx context.Context, limit int) ([]domain.OperationLogEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent operations: %w", err)
	}
	return entries, nil
}
