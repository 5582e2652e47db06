package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusfix/backend/internal/access"
	"github.com/campusfix/backend/internal/models"
)

// Repository is the pgx-backed lifecycle store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a lifecycle repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetRequestMeta loads the tenant/owner/assignee/status slice of a request.
func (r *Repository) GetRequestMeta(ctx context.Context, requestID uuid.UUID) (*access.RequestMeta, error) {
	const q = `SELECT r.id, r.organization_id, r.requestor_id, r.status,
		(SELECT a.assignee_id FROM assignments a WHERE a.request_id = r.id ORDER BY a.seq DESC LIMIT 1)
		FROM requests r WHERE r.id = $1`
	var meta access.RequestMeta
	err := r.pool.QueryRow(ctx, q, requestID).
		Scan(&meta.ID, &meta.OrganizationID, &meta.RequestorID, &meta.Status, &meta.AssigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &meta, nil
}

// GetUserMeta loads the role/organization slice of a user.
func (r *Repository) GetUserMeta(ctx context.Context, userID uuid.UUID) (*UserMeta, error) {
	const q = `SELECT id, role, organization_id FROM users WHERE id = $1`
	var m UserMeta
	err := r.pool.QueryRow(ctx, q, userID).Scan(&m.ID, &m.Role, &m.OrganizationID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// AppendStatusUpdate inserts a status log row and mirrors requests.status in
// one transaction. The event seq is handed out by bumping requests.event_seq
// inside the same transaction, so concurrent writers cannot interleave seqs.
func (r *Repository) AppendStatusUpdate(ctx context.Context, upd *models.StatusUpdate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertStatusUpdate(ctx, tx, upd); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// AppendAssignment inserts the assignment row (and the automatic approval
// status row, when given) in one transaction. The approval takes the earlier
// seq so the timeline orders it before the assignment.
func (r *Repository) AppendAssignment(ctx context.Context, a *models.Assignment, approve *models.StatusUpdate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if approve != nil {
		if err := insertStatusUpdate(ctx, tx, approve); err != nil {
			return err
		}
	}

	const bump = `UPDATE requests SET event_seq = event_seq + 1, updated_at = NOW()
		WHERE id = $1 RETURNING event_seq`
	if err := tx.QueryRow(ctx, bump, a.RequestID).Scan(&a.Seq); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("bump event seq: %w", err)
	}
	const ins = `INSERT INTO assignments (id, request_id, seq, assignee_id, assigner_id, note)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, created_at`
	if err := tx.QueryRow(ctx, ins, a.RequestID, a.Seq, a.AssigneeID, a.AssignerID, a.Note).
		Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return tx.Commit(ctx)
}

// UpdatePriority updates the request priority and updated_at only; the status
// log is untouched.
func (r *Repository) UpdatePriority(ctx context.Context, requestID uuid.UUID, priority models.Priority) error {
	const q = `UPDATE requests SET priority = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, requestID, priority)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// insertStatusUpdate bumps the request's event seq, mirrors the status and
// inserts the log row using the caller's transaction.
func insertStatusUpdate(ctx context.Context, tx pgx.Tx, upd *models.StatusUpdate) error {
	const mirror = `UPDATE requests SET status = $2, updated_at = NOW(), event_seq = event_seq + 1
		WHERE id = $1 RETURNING event_seq`
	if err := tx.QueryRow(ctx, mirror, upd.RequestID, upd.Status).Scan(&upd.Seq); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		return fmt.Errorf("mirror status: %w", err)
	}
	const ins = `INSERT INTO status_updates (id, request_id, seq, status, actor_id, note)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5)
		RETURNING id, created_at`
	if err := tx.QueryRow(ctx, ins, upd.RequestID, upd.Seq, upd.Status, upd.ActorID, upd.Note).
		Scan(&upd.ID, &upd.CreatedAt); err != nil {
		return fmt.Errorf("insert status update: %w", err)
	}
	return nil
}
