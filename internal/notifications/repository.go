package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusfix/backend/internal/models"
)

// Payload is the collaborator contract for outbound notifications: everything
// the renderer needs, denormalized at dispatch time.
type Payload struct {
	RequestID         uuid.UUID
	RequestType       models.RequestType
	Title             string
	Description       string
	Priority          models.Priority
	LocationInfo      string
	RequesterIdentity string
	OrganizationName  string
	CreatedAt         time.Time
}

// NotificationLog is one delivery attempt record.
type NotificationLog struct {
	ID               uuid.UUID  `json:"id"`
	RequestID        uuid.UUID  `json:"request_id"`
	NotificationType string     `json:"notification_type"`
	RecipientEmail   string     `json:"recipient_email"`
	Subject          string     `json:"subject"`
	Status           string     `json:"status"`
	SentAt           *time.Time `json:"sent_at,omitempty"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Repository handles notification payload assembly and delivery logs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a notifications repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// BuildPayload assembles the dispatch payload for a request. Location info
// comes from whichever detail record the request type implies.
func (r *Repository) BuildPayload(ctx context.Context, requestID uuid.UUID) (*Payload, error) {
	const q = `SELECT r.id, r.request_type, r.title, r.description, r.priority, r.created_at,
		u.full_name, u.email, o.name,
		COALESCE(fd.location, ''), COALESCE(bd.building, ''), COALESCE(bd.room_number, '')
		FROM requests r
		JOIN users u ON u.id = r.requestor_id
		JOIN organizations o ON o.id = r.organization_id
		LEFT JOIN facilities_details fd ON fd.request_id = r.id
		LEFT JOIN building_details bd ON bd.request_id = r.id
		WHERE r.id = $1`
	var (
		p                           Payload
		fullName, email             string
		facLocation, building, room string
	)
	err := r.pool.QueryRow(ctx, q, requestID).Scan(
		&p.RequestID, &p.RequestType, &p.Title, &p.Description, &p.Priority, &p.CreatedAt,
		&fullName, &email, &p.OrganizationName,
		&facLocation, &building, &room,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	p.RequesterIdentity = fullName + " <" + email + ">"
	switch p.RequestType {
	case models.RequestTypeFacilities:
		p.LocationInfo = facLocation
	case models.RequestTypeBuilding:
		p.LocationInfo = building
		if room != "" {
			p.LocationInfo += ", room " + room
		}
	}
	return &p, nil
}

// AdminEmails returns recipient addresses for submission notifications: the
// admins of the request's organization.
func (r *Repository) AdminEmails(ctx context.Context, requestID uuid.UUID) ([]string, error) {
	const q = `SELECT u.email FROM users u
		JOIN requests r ON r.organization_id = u.organization_id
		WHERE r.id = $1 AND u.role = 'admin'
		ORDER BY u.email`
	rows, err := r.pool.Query(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var emails []string
	for rows.Next() {
		var e string
		if err := rows.Scan(&e); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

// UserEmail returns a user's address.
func (r *Repository) UserEmail(ctx context.Context, userID uuid.UUID) (string, error) {
	var e string
	err := r.pool.QueryRow(ctx, `SELECT email FROM users WHERE id = $1`, userID).Scan(&e)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.ErrNotFound
		}
		return "", err
	}
	return e, nil
}

// CreateLog inserts a queued delivery record.
func (r *Repository) CreateLog(ctx context.Context, log *NotificationLog) error {
	const q = `INSERT INTO notification_logs (id, request_id, notification_type, recipient_email, subject, status)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, 'queued')
		RETURNING id, status, created_at`
	return r.pool.QueryRow(ctx, q, log.RequestID, log.NotificationType, log.RecipientEmail, log.Subject).
		Scan(&log.ID, &log.Status, &log.CreatedAt)
}

// MarkSent records a successful delivery.
func (r *Repository) MarkSent(ctx context.Context, logID uuid.UUID) error {
	const q = `UPDATE notification_logs SET status = 'sent', sent_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, logID)
	return err
}

// MarkFailed records a failed delivery with its error.
func (r *Repository) MarkFailed(ctx context.Context, logID uuid.UUID, msg string) error {
	const q = `UPDATE notification_logs SET status = 'failed', error_message = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, logID, msg)
	return err
}

// ListByRequest returns delivery records for a request, newest first.
func (r *Repository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]NotificationLog, error) {
	const q = `SELECT id, request_id, notification_type, recipient_email, subject, status, sent_at, error_message, created_at
		FROM notification_logs WHERE request_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []NotificationLog
	for rows.Next() {
		var l NotificationLog
		if err := rows.Scan(&l.ID, &l.RequestID, &l.NotificationType, &l.RecipientEmail,
			&l.Subject, &l.Status, &l.SentAt, &l.ErrorMessage, &l.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
