// Package notifications is the outbound notification collaborator. Dispatch
// is fire-and-forget: failures are logged and never roll back or block the
// lifecycle mutation that triggered them.
package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusfix/backend/pkg/queue"
)

const (
	// TypeSubmitted notifies org admins of a new request.
	TypeSubmitted = "request_submitted"
	// TypeAssigned notifies maintenance staff of an assignment.
	TypeAssigned = "request_assigned"
)

// Dispatcher builds notification payloads and enqueues email jobs.
type Dispatcher struct {
	repo   *Repository
	queue  *queue.Queue
	logger *zap.Logger
}

// NewDispatcher creates a notification dispatcher.
func NewDispatcher(repo *Repository, q *queue.Queue, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{repo: repo, queue: q, logger: logger}
}

// RequestSubmitted notifies every admin of the request's organization. All
// errors are swallowed after logging: the submission already committed.
func (d *Dispatcher) RequestSubmitted(ctx context.Context, requestID uuid.UUID) {
	payload, err := d.repo.BuildPayload(ctx, requestID)
	if err != nil {
		d.logger.Error("notification payload failed", zap.Error(err), zap.String("request_id", requestID.String()))
		return
	}
	emails, err := d.repo.AdminEmails(ctx, requestID)
	if err != nil {
		d.logger.Error("notification recipients failed", zap.Error(err), zap.String("request_id", requestID.String()))
		return
	}
	if len(emails) == 0 {
		d.logger.Warn("no admin recipients for request", zap.String("request_id", requestID.String()))
		return
	}

	subject := fmt.Sprintf("[%s] New %s request: %s", payload.OrganizationName, payload.RequestType, payload.Title)
	body := submissionBody(payload)
	for _, email := range emails {
		d.enqueue(ctx, TypeSubmitted, requestID, email, subject, body)
	}
}

// RequestAssigned notifies the assignee. Best-effort, like RequestSubmitted.
func (d *Dispatcher) RequestAssigned(ctx context.Context, requestID, assigneeID uuid.UUID) {
	payload, err := d.repo.BuildPayload(ctx, requestID)
	if err != nil {
		d.logger.Error("notification payload failed", zap.Error(err), zap.String("request_id", requestID.String()))
		return
	}
	email, err := d.repo.UserEmail(ctx, assigneeID)
	if err != nil {
		d.logger.Error("assignee lookup failed", zap.Error(err), zap.String("assignee_id", assigneeID.String()))
		return
	}
	subject := fmt.Sprintf("[%s] Request assigned to you: %s", payload.OrganizationName, payload.Title)
	d.enqueue(ctx, TypeAssigned, requestID, email, subject, submissionBody(payload))
}

func (d *Dispatcher) enqueue(ctx context.Context, notifType string, requestID uuid.UUID, email, subject, body string) {
	log := &NotificationLog{
		RequestID:        requestID,
		NotificationType: notifType,
		RecipientEmail:   email,
		Subject:          subject,
	}
	if err := d.repo.CreateLog(ctx, log); err != nil {
		d.logger.Error("notification log failed", zap.Error(err), zap.String("recipient", email))
		return
	}
	err := d.queue.EnqueueNotificationEmail(ctx, queue.NotificationEmailPayload{
		LogID:          log.ID,
		RequestID:      requestID,
		RecipientEmail: email,
		Subject:        subject,
		Body:           body,
	})
	if err != nil {
		d.logger.Error("notification enqueue failed", zap.Error(err), zap.String("recipient", email))
		if mErr := d.repo.MarkFailed(ctx, log.ID, err.Error()); mErr != nil {
			d.logger.Error("notification log update failed", zap.Error(mErr))
		}
	}
}

func submissionBody(p *Payload) string {
	return fmt.Sprintf(
		"Request: %s\nType: %s\nPriority: %s\nLocation: %s\nSubmitted by: %s\nSubmitted at: %s\n\n%s\n",
		p.Title, p.RequestType, p.Priority, p.LocationInfo, p.RequesterIdentity,
		p.CreatedAt.Format("2006-01-02 15:04 MST"), p.Description,
	)
}
