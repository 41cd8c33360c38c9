// internal/service/contact_service.go
package service

import (
	"context"

	"github.com/samhanlabs/gmvboard/internal/domain"
)

// ContactStore is the CRM read surface.
type ContactStore interface {
	List(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, int, error)
	Get(ctx context.Context, id int64) (*domain.Contact, error)
}

type ContactService struct {
	repo ContactStore
}

func NewContactService(repo ContactStore) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) List(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *ContactService) Get(ctx context.Context, id int64) (*domain.Contact, error) {
	return s.repo.Get(ctx, id)
}
