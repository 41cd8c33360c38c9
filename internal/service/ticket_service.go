// internal/service/ticket_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/samhanlabs/gmvboard/internal/domain"
)

// TicketStore is the support-ticket persistence surface.
type TicketStore interface {
	Create(ctx context.Context, t *domain.Ticket) error
	List(ctx context.Context, status string, limit, offset int) ([]domain.Ticket, error)
	Get(ctx context.Context, id int64) (*domain.Ticket, error)
	Update(ctx context.Context, id int64, status, assignee string) (*domain.Ticket, error)
	AppendMessage(ctx context.Context, m *domain.TicketMessage) error
	MessagesSince(ctx context.Context, ticketID, afterID int64) ([]domain.TicketMessage, error)
}

type TicketService struct {
	repo TicketStore
}

func NewTicketService(repo TicketStore) *TicketService {
	return &TicketService{repo: repo}
}

func (s *TicketService) Create(ctx context.Context, subject, description, priority, requester string) (*domain.Ticket, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, fmt.Errorf("subject is required")
	}
	if priority == "" {
		priority = "normal"
	}

	t := &domain.Ticket{
		Subject:        subject,
		Description:    strings.TrimSpace(description),
		Status:         domain.TicketOpen,
		Priority:       priority,
		RequesterEmail: requester,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TicketService) List(ctx context.Context, status string, limit, offset int) ([]domain.Ticket, error) {
	return s.repo.List(ctx, status, limit, offset)
}

func (s *TicketService) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.repo.Get(ctx, id)
}

func (s *TicketService) Update(ctx context.Context, id int64, status, assignee string) (*domain.Ticket, error) {
	switch status {
	case "", domain.TicketOpen, domain.TicketInProgress, domain.TicketResolved, domain.TicketClosed:
	default:
		return nil, fmt.Errorf("invalid ticket status %q", status)
	}
	return s.repo.Update(ctx, id, status, assignee)
}

func (s *TicketService) PostMessage(ctx context.Context, ticketID int64, sender, body string) (*domain.TicketMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("message body is required")
	}

	// Posting to a missing ticket should 404, not violate a foreign key.
	if _, err := s.repo.Get(ctx, ticketID); err != nil {
		return nil, err
	}

	m := &domain.TicketMessage{
		TicketID:    ticketID,
		SenderEmail: sender,
		Body:        body,
	}
	if err := s.repo.AppendMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *TicketService) MessagesSince(ctx context.Context, ticketID, afterID int64) ([]domain.TicketMessage, error) {
	if _, err := s.repo.Get(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.repo.MessagesSince(ctx, ticketID, afterID)
}
