package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusfix/backend/internal/notifications"
	"github.com/campusfix/backend/pkg/queue"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender delivers email over plain SMTP.
type SMTPSender struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Send delivers one message. Uses AUTH PLAIN when credentials are configured.
func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	msg := []byte("From: " + s.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" + body)
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	return smtp.SendMail(s.Host+":"+s.Port, auth, s.From, []string{to}, msg)
}

// LogStore updates delivery records after each attempt.
type LogStore interface {
	MarkSent(ctx context.Context, logID uuid.UUID) error
	MarkFailed(ctx context.Context, logID uuid.UUID, msg string) error
}

// NotificationProcessor processes notification email jobs: deliver via SMTP,
// record the outcome on the notification log.
type NotificationProcessor struct {
	store  LogStore
	sender Sender
	queue  *queue.Queue
	logger *zap.Logger
}

var _ LogStore = (*notifications.Repository)(nil)

// NewNotificationProcessor creates a notification email processor.
func NewNotificationProcessor(store LogStore, sender Sender, q *queue.Queue, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationProcessor{store: store, sender: sender, queue: q, logger: logger}
}

// Process executes one notification email job.
func (p *NotificationProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeNotificationEmail {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.NotificationEmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if err := p.sender.Send(ctx, payload.RecipientEmail, payload.Subject, payload.Body); err != nil {
		if mErr := p.store.MarkFailed(ctx, payload.LogID, err.Error()); mErr != nil {
			p.logger.Error("mark failed errored", zap.Error(mErr), zap.String("log_id", payload.LogID.String()))
		}
		return fmt.Errorf("send email: %w", err)
	}
	if err := p.store.MarkSent(ctx, payload.LogID); err != nil {
		p.logger.Error("mark sent errored", zap.Error(err), zap.String("log_id", payload.LogID.String()))
	}

	p.logger.Info("notification delivered",
		zap.String("log_id", payload.LogID.String()),
		zap.String("request_id", payload.RequestID.String()),
		zap.String("recipient", payload.RecipientEmail))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *NotificationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
