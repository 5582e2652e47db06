package requests

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusfix/backend/internal/models"
)

// Repository is the pgx-backed request store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a request repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const requestColumns = `id, organization_id, request_type, requestor_id, title, description, status, priority, event_seq, created_at, updated_at`

func scanRequest(row pgx.Row, r *models.Request) error {
	return row.Scan(&r.ID, &r.OrganizationID, &r.RequestType, &r.RequestorID, &r.Title,
		&r.Description, &r.Status, &r.Priority, &r.EventSeq, &r.CreatedAt, &r.UpdatedAt)
}

// CreateRequest inserts the request row and its facilities detail (when
// given) in one transaction.
func (r *Repository) CreateRequest(ctx context.Context, req *models.Request, detail *models.FacilitiesDetail) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `INSERT INTO requests (id, organization_id, request_type, requestor_id, title, description, status, priority)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err = tx.QueryRow(ctx, q, req.OrganizationID, req.RequestType, req.RequestorID,
		req.Title, req.Description, req.Status, req.Priority).
		Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert request: %w", err)
	}

	if detail != nil {
		detail.RequestID = req.ID
		const dq = `INSERT INTO facilities_details (request_id, event_name, location, event_date, items, notes)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.Exec(ctx, dq, detail.RequestID, detail.EventName, detail.Location,
			detail.EventDate, detail.Items, detail.Notes); err != nil {
			return fmt.Errorf("insert facilities detail: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// CreateBuildingDetail inserts the 1:1 building detail row.
func (r *Repository) CreateBuildingDetail(ctx context.Context, d *models.BuildingDetail) error {
	const q = `INSERT INTO building_details (request_id, building, room_number, description)
		VALUES ($1, $2, $3, $4)`
	_, err := r.pool.Exec(ctx, q, d.RequestID, d.Building, d.RoomNumber, d.Description)
	return err
}

// GetRequest returns a request by id.
func (r *Repository) GetRequest(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	var req models.Request
	err := scanRequest(r.pool.QueryRow(ctx, `SELECT `+requestColumns+` FROM requests WHERE id = $1`, id), &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// GetFacilitiesDetail returns the facilities detail, or nil when absent.
func (r *Repository) GetFacilitiesDetail(ctx context.Context, requestID uuid.UUID) (*models.FacilitiesDetail, error) {
	const q = `SELECT request_id, event_name, location, event_date, items, notes
		FROM facilities_details WHERE request_id = $1`
	var d models.FacilitiesDetail
	err := r.pool.QueryRow(ctx, q, requestID).
		Scan(&d.RequestID, &d.EventName, &d.Location, &d.EventDate, &d.Items, &d.Notes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// GetBuildingDetail returns the building detail, or nil when absent.
func (r *Repository) GetBuildingDetail(ctx context.Context, requestID uuid.UUID) (*models.BuildingDetail, error) {
	const q = `SELECT request_id, building, room_number, description
		FROM building_details WHERE request_id = $1`
	var d models.BuildingDetail
	err := r.pool.QueryRow(ctx, q, requestID).
		Scan(&d.RequestID, &d.Building, &d.RoomNumber, &d.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// GetUserPublic returns a user's public identity.
func (r *Repository) GetUserPublic(ctx context.Context, id uuid.UUID) (*models.UserPublic, error) {
	const q = `SELECT id, email, full_name, role, organization_id, created_at FROM users WHERE id = $1`
	var u models.UserPublic
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.OrganizationID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CurrentAssignee returns the most recent assignment row, or nil when the
// request was never assigned.
func (r *Repository) CurrentAssignee(ctx context.Context, requestID uuid.UUID) (*models.Assignment, error) {
	const q = `SELECT id, request_id, seq, assignee_id, assigner_id, note, created_at
		FROM assignments WHERE request_id = $1 ORDER BY seq DESC LIMIT 1`
	var a models.Assignment
	err := r.pool.QueryRow(ctx, q, requestID).
		Scan(&a.ID, &a.RequestID, &a.Seq, &a.AssigneeID, &a.AssignerID, &a.Note, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *Repository) list(ctx context.Context, q string, arg any) ([]models.Request, error) {
	rows, err := r.pool.Query(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Request
	for rows.Next() {
		var req models.Request
		if err := scanRequest(rows, &req); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// ListByRequestor returns requests submitted by the user, newest first.
func (r *Repository) ListByRequestor(ctx context.Context, userID uuid.UUID) ([]models.Request, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM requests WHERE requestor_id = $1 ORDER BY created_at DESC`, userID)
}

// ListByOrganization returns all requests inside an organization, newest first.
func (r *Repository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Request, error) {
	return r.list(ctx, `SELECT `+requestColumns+` FROM requests WHERE organization_id = $1 ORDER BY created_at DESC`, orgID)
}

// ListByAssignee returns requests whose current assignee is the user.
func (r *Repository) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]models.Request, error) {
	const q = `SELECT ` + requestColumns + ` FROM requests r
		WHERE (SELECT a.assignee_id FROM assignments a WHERE a.request_id = r.id ORDER BY a.seq DESC LIMIT 1) = $1
		ORDER BY r.created_at DESC`
	return r.list(ctx, q, userID)
}
