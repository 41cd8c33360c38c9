// internal/repository/postgres/contact_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/samhanlabs/gmvboard/internal/domain"
)

var ErrNotFound = errors.New("not found")

type ContactRepository struct {
	db *DB
}

func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// List returns a filtered, paginated page of contacts plus the total count
// matching the filter.
func (r *ContactRepository) List(ctx context.Context, filter domain.ContactFilter) ([]domain.Contact, int, error) {
	var clauses []string
	var args []any

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		idx := len(args)
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)", idx, idx, idx))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM contacts"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count contacts: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT id, name, email, phone, company, status, created_at
		FROM contacts%s
		ORDER BY name
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	contacts := []domain.Contact{}
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, total, nil
}

func (r *ContactRepository) Get(ctx context.Context, id int64) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.GetContext(ctx, &contact, `
		SELECT id, name, email, phone, company, status, created_at
		FROM contacts WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact %d: %w", id, err)
	}
	return &contact, nil
}
