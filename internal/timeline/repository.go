package timeline

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusfix/backend/internal/models"
)

// Repository is the pgx-backed timeline store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a timeline repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetRequestHead returns the creation record for a request.
func (r *Repository) GetRequestHead(ctx context.Context, requestID uuid.UUID) (*RequestHead, error) {
	const q = `SELECT id, requestor_id, created_at FROM requests WHERE id = $1`
	var head RequestHead
	err := r.pool.QueryRow(ctx, q, requestID).Scan(&head.ID, &head.RequestorID, &head.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &head, nil
}

// ListStatusUpdates returns the status log rows in insertion order.
func (r *Repository) ListStatusUpdates(ctx context.Context, requestID uuid.UUID) ([]models.StatusUpdate, error) {
	const q = `SELECT id, request_id, seq, status, actor_id, note, created_at
		FROM status_updates WHERE request_id = $1 ORDER BY seq ASC, created_at ASC`
	rows, err := r.pool.Query(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.StatusUpdate
	for rows.Next() {
		var u models.StatusUpdate
		if err := rows.Scan(&u.ID, &u.RequestID, &u.Seq, &u.Status, &u.ActorID, &u.Note, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// ListAssignments returns the assignment log rows in insertion order.
func (r *Repository) ListAssignments(ctx context.Context, requestID uuid.UUID) ([]models.Assignment, error) {
	const q = `SELECT id, request_id, seq, assignee_id, assigner_id, note, created_at
		FROM assignments WHERE request_id = $1 ORDER BY seq ASC, created_at ASC`
	rows, err := r.pool.Query(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.ID, &a.RequestID, &a.Seq, &a.AssigneeID, &a.AssignerID, &a.Note, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// ResolveActors loads display identities for the given user ids.
func (r *Repository) ResolveActors(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Actor, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]Actor{}, nil
	}
	const q = `SELECT id, full_name, email FROM users WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uuid.UUID]Actor)
	for rows.Next() {
		var a Actor
		if err := rows.Scan(&a.ID, &a.FullName, &a.Email); err != nil {
			return nil, err
		}
		out[a.ID] = a
	}
	return out, rows.Err()
}
