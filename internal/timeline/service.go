package timeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/campusfix/backend/internal/models"
)

// RequestHead is the creation record the synthetic first event is built from.
type RequestHead struct {
	ID          uuid.UUID
	RequestorID uuid.UUID
	CreatedAt   time.Time
}

// Store supplies the three event sources and actor identity resolution.
type Store interface {
	GetRequestHead(ctx context.Context, requestID uuid.UUID) (*RequestHead, error)
	ListStatusUpdates(ctx context.Context, requestID uuid.UUID) ([]models.StatusUpdate, error)
	ListAssignments(ctx context.Context, requestID uuid.UUID) ([]models.Assignment, error)
	ResolveActors(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Actor, error)
}

// Service reconstructs request timelines.
type Service struct {
	store Store
}

// NewService creates a timeline service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Timeline merges the creation event, status log and assignment log into one
// ordered sequence. Returns ErrNotFound for unknown request ids.
func (s *Service) Timeline(ctx context.Context, requestID uuid.UUID) (*Timeline, error) {
	head, err := s.store.GetRequestHead(ctx, requestID)
	if err != nil {
		return nil, err
	}
	statuses, err := s.store.ListStatusUpdates(ctx, requestID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.store.ListAssignments(ctx, requestID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, 1+len(statuses)+2*len(assignments))
	ids = append(ids, head.RequestorID)
	for _, u := range statuses {
		ids = append(ids, u.ActorID)
	}
	for _, a := range assignments {
		ids = append(ids, a.AssignerID, a.AssigneeID)
	}
	actors, err := s.store.ResolveActors(ctx, ids)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, 1+len(statuses)+len(assignments))
	events = append(events, Event{
		Kind:      KindCreated,
		Seq:       0,
		Timestamp: head.CreatedAt,
		Actor:     actors[head.RequestorID],
		Status:    "pending",
	})
	for _, u := range statuses {
		events = append(events, Event{
			Kind:      KindStatus,
			Seq:       u.Seq,
			Timestamp: u.CreatedAt,
			Actor:     actors[u.ActorID],
			Status:    u.Status,
			Note:      u.Note,
		})
	}
	for _, a := range assignments {
		assignee := actors[a.AssigneeID]
		events = append(events, Event{
			Kind:      KindAssignment,
			Seq:       a.Seq,
			Timestamp: a.CreatedAt,
			Actor:     actors[a.AssignerID],
			Assignee:  &assignee,
			Note:      a.Note,
		})
	}

	return &Timeline{RequestID: requestID, Events: merge(events)}, nil
}
