// internal/repository/postgres/ticket_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/samhanlabs/gmvboard/internal/domain"
)

type TicketRepository struct {
	db *DB
}

func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.Ticket) error {
	query := `
		INSERT INTO tickets (subject, description, status, priority, requester_email, assignee_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		t.Subject, t.Description, t.Status, t.Priority, t.RequesterEmail, t.AssigneeEmail,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) List(ctx context.Context, status string, limit, offset int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, subject, description, status, priority, requester_email,
		       COALESCE(assignee_email, '') AS assignee_email, created_at, updated_at
		FROM tickets
	`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(` ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	tickets := []domain.Ticket{}
	if err := r.db.SelectContext(ctx, &tickets, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

func (r *TicketRepository) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	var t domain.Ticket
	err := r.db.GetContext(ctx, &t, `
		SELECT id, subject, description, status, priority, requester_email,
		       COALESCE(assignee_email, '') AS assignee_email, created_at, updated_at
		FROM tickets WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d: %w", id, err)
	}
	return &t, nil
}

// Update changes status and/or assignee; empty values leave the column alone.
func (r *TicketRepository) Update(ctx context.Context, id int64, status, assignee string) (*domain.Ticket, error) {
	query := `
		UPDATE tickets
		SET status = COALESCE(NULLIF($2, ''), status),
		    assignee_email = COALESCE(NULLIF($3, ''), assignee_email),
		    updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id, status, assignee)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *TicketRepository) AppendMessage(ctx context.Context, m *domain.TicketMessage) error {
	query := `
		INSERT INTO ticket_messages (ticket_id, sender_email, body, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, m.TicketID, m.SenderEmail, m.Body).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ticket message: %w", err)
	}

	// Touch the ticket so it bubbles up in the list view.
	if _, err := r.db.ExecContext(ctx, `UPDATE tickets SET updated_at = NOW() WHERE id = $1`, m.TicketID); err != nil {
		return fmt.Errorf("failed to touch ticket %d: %w", m.TicketID, err)
	}
	return nil
}

// MessagesSince returns messages newer than afterID, oldest first, which is
// all the chat UI needs for polling.
func (r *TicketRepository) MessagesSince(ctx context.Context, ticketID, afterID int64) ([]domain.TicketMessage, error) {
	messages := []domain.TicketMessage{}
	err := r.db.SelectContext(ctx, &messages, `
		SELECT id, ticket_id, sender_email, body, created_at
		FROM ticket_messages
		WHERE ticket_id = $1 AND id > $2
		ORDER BY id
	`, ticketID, afterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for ticket %d: %w", ticketID, err)
	}
	return messages, nil
}
