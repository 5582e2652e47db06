package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfix/backend/pkg/queue"
)

type fakeSender struct {
	sent []string
	err  error
}

func (s *fakeSender) Send(_ context.Context, to, _, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, to)
	return nil
}

type fakeLogStore struct {
	sent   []uuid.UUID
	failed map[uuid.UUID]string
}

func newFakeLogStore() *fakeLogStore {
	return &fakeLogStore{failed: map[uuid.UUID]string{}}
}

func (s *fakeLogStore) MarkSent(_ context.Context, logID uuid.UUID) error {
	s.sent = append(s.sent, logID)
	return nil
}

func (s *fakeLogStore) MarkFailed(_ context.Context, logID uuid.UUID, msg string) error {
	s.failed[logID] = msg
	return nil
}

func emailJob(t *testing.T, payload queue.NotificationEmailPayload) *queue.Job {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return &queue.Job{
		ID:      uuid.New().String(),
		Type:    queue.JobTypeNotificationEmail,
		Payload: raw,
	}
}

func TestProcessDeliversAndMarksSent(t *testing.T) {
	store := newFakeLogStore()
	sender := &fakeSender{}
	p := NewNotificationProcessor(store, sender, nil, nil)

	logID := uuid.New()
	job := emailJob(t, queue.NotificationEmailPayload{
		LogID:          logID,
		RequestID:      uuid.New(),
		RecipientEmail: "admin@example.edu",
		Subject:        "New maintenance request",
		Body:           "A new request was submitted.",
	})

	require.NoError(t, p.Process(context.Background(), job))
	assert.Equal(t, []string{"admin@example.edu"}, sender.sent)
	assert.Equal(t, []uuid.UUID{logID}, store.sent)
	assert.Empty(t, store.failed)
}

func TestProcessSendFailureMarksFailed(t *testing.T) {
	store := newFakeLogStore()
	sender := &fakeSender{err: errors.New("smtp timeout")}
	p := NewNotificationProcessor(store, sender, nil, nil)

	logID := uuid.New()
	job := emailJob(t, queue.NotificationEmailPayload{
		LogID:          logID,
		RecipientEmail: "admin@example.edu",
	})

	err := p.Process(context.Background(), job)
	require.Error(t, err)
	assert.Empty(t, store.sent)
	assert.Contains(t, store.failed[logID], "smtp timeout")
}

func TestProcessRejectsUnknownJobType(t *testing.T) {
	p := NewNotificationProcessor(newFakeLogStore(), &fakeSender{}, nil, nil)
	err := p.Process(context.Background(), &queue.Job{ID: uuid.New().String(), Type: "backfill"})
	assert.Error(t, err)
}

func TestProcessRejectsMalformedPayload(t *testing.T) {
	p := NewNotificationProcessor(newFakeLogStore(), &fakeSender{}, nil, nil)
	err := p.Process(context.Background(), &queue.Job{
		ID:      uuid.New().String(),
		Type:    queue.JobTypeNotificationEmail,
		Payload: json.RawMessage(`{"log_id":`),
	})
	assert.Error(t, err)
}
