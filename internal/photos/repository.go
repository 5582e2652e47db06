package photos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusfix/backend/internal/models"
)

// Repository handles request photo metadata. Binaries live in the blob store;
// only pointers are persisted here.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a photos repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a photo metadata row.
func (r *Repository) Create(ctx context.Context, p *models.RequestPhoto) error {
	const q = `INSERT INTO request_photos (id, request_id, file_name, s3_key, content_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	return r.pool.QueryRow(ctx, q, p.ID, p.RequestID, p.FileName, p.S3Key,
		p.ContentType, p.SizeBytes, p.UploadedBy).Scan(&p.CreatedAt)
}

// GetByID returns a photo metadata row.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.RequestPhoto, error) {
	const q = `SELECT id, request_id, file_name, s3_key, content_type, size_bytes, uploaded_by, created_at
		FROM request_photos WHERE id = $1`
	var p models.RequestPhoto
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.RequestID, &p.FileName, &p.S3Key,
		&p.ContentType, &p.SizeBytes, &p.UploadedBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListByRequest returns photo metadata for a request, oldest first.
func (r *Repository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.RequestPhoto, error) {
	const q = `SELECT id, request_id, file_name, s3_key, content_type, size_bytes, uploaded_by, created_at
		FROM request_photos WHERE request_id = $1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.RequestPhoto
	for rows.Next() {
		var p models.RequestPhoto
		if err := rows.Scan(&p.ID, &p.RequestID, &p.FileName, &p.S3Key,
			&p.ContentType, &p.SizeBytes, &p.UploadedBy, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
