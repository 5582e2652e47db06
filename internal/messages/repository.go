package messages

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusfix/backend/internal/models"
)

// Repository handles request message persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a messages repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a message.
func (r *Repository) Create(ctx context.Context, m *models.Message) error {
	const q = `INSERT INTO messages (id, request_id, author_id, body)
		VALUES (gen_random_uuid(), $1, $2, $3)
		RETURNING id, created_at`
	return r.pool.QueryRow(ctx, q, m.RequestID, m.AuthorID, m.Body).
		Scan(&m.ID, &m.CreatedAt)
}

// ListByRequest returns messages for a request in chronological order.
func (r *Repository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.Message, error) {
	const q = `SELECT id, request_id, author_id, body, created_at
		FROM messages WHERE request_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.RequestID, &m.AuthorID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
