package lifecycle

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusfix/backend/internal/access"
	"github.com/campusfix/backend/internal/models"
)

// UserMeta is the slice of user state the service validates assignees with.
type UserMeta struct {
	ID             uuid.UUID
	Role           models.Role
	OrganizationID *uuid.UUID
}

// Store persists lifecycle mutations. Append methods must write the log row
// and the mirrored request fields in one transaction.
type Store interface {
	GetRequestMeta(ctx context.Context, requestID uuid.UUID) (*access.RequestMeta, error)
	GetUserMeta(ctx context.Context, userID uuid.UUID) (*UserMeta, error)
	// AppendStatusUpdate assigns the next event seq, inserts the row and
	// mirrors requests.status/updated_at atomically. Fills ID, Seq, CreatedAt.
	AppendStatusUpdate(ctx context.Context, upd *models.StatusUpdate) error
	// AppendAssignment inserts the assignment row; when approve is non-nil it
	// also inserts the automatic status update, all in the same transaction.
	// The status update takes the earlier seq so the timeline shows the
	// approval before the assignment.
	AppendAssignment(ctx context.Context, a *models.Assignment, approve *models.StatusUpdate) error
	UpdatePriority(ctx context.Context, requestID uuid.UUID, priority models.Priority) error
}

// Notifier receives best-effort side-effect notifications. Failures are the
// notifier's to log; the service never lets them reach the caller.
type Notifier interface {
	RequestAssigned(ctx context.Context, requestID, assigneeID uuid.UUID)
}

// AutoApproveNote is the note recorded on the automatic pending->approved
// transition when a pending request is assigned.
const AutoApproveNote = "approved automatically on assignment"

// Service is the status machine engine plus the assignment manager.
type Service struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a lifecycle service. notifier may be nil.
func NewService(store Store, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, notifier: notifier, logger: logger}
}

// RecordStatusChange validates and records a status transition. The requestor
// may cancel their own request even without general status-update rights;
// every other transition requires update_status permission.
func (s *Service) RecordStatusChange(ctx context.Context, p access.Principal, requestID uuid.UUID, newStatus Status, note string) (*models.StatusUpdate, error) {
	meta, err := s.store.GetRequestMeta(ctx, requestID)
	if err != nil {
		return nil, err
	}

	allowed := access.Evaluate(p, *meta, access.OpUpdateStatus)
	if !allowed && newStatus == StatusCancelled {
		allowed = access.Evaluate(p, *meta, access.OpCancel)
	}
	if !allowed {
		return nil, models.ErrForbidden
	}

	current, err := ParseStatus(meta.Status)
	if err != nil {
		return nil, err
	}
	if !CanTransition(current, newStatus) {
		return nil, models.ErrInvalidTransition
	}

	upd := &models.StatusUpdate{
		RequestID: requestID,
		Status:    string(newStatus),
		ActorID:   p.ID,
		Note:      note,
	}
	if err := s.store.AppendStatusUpdate(ctx, upd); err != nil {
		return nil, err
	}
	s.logger.Info("status changed",
		zap.String("request_id", requestID.String()),
		zap.String("from", string(current)),
		zap.String("to", string(newStatus)),
		zap.String("actor_id", p.ID.String()))
	return upd, nil
}

// UpdatePriority changes the request priority without touching the status log.
func (s *Service) UpdatePriority(ctx context.Context, p access.Principal, requestID uuid.UUID, priority models.Priority) error {
	if !priority.Valid() {
		return models.NewValidationError("priority", "must be one of low, medium, high, urgent")
	}
	meta, err := s.store.GetRequestMeta(ctx, requestID)
	if err != nil {
		return err
	}
	if !access.Evaluate(p, *meta, access.OpUpdatePriority) {
		return models.ErrForbidden
	}
	return s.store.UpdatePriority(ctx, requestID, priority)
}

// AssignAndApprove records a maintenance-staff assignment. Assigning a
// pending request also records the automatic approved transition in the same
// transaction.
func (s *Service) AssignAndApprove(ctx context.Context, p access.Principal, requestID, assigneeID uuid.UUID, note string) (*models.Assignment, error) {
	meta, err := s.store.GetRequestMeta(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !access.Evaluate(p, *meta, access.OpAssign) {
		return nil, models.ErrForbidden
	}

	assignee, err := s.store.GetUserMeta(ctx, assigneeID)
	if err != nil {
		return nil, err
	}
	if assignee.Role != models.RoleMaintenance && assignee.Role != models.RoleAdmin {
		return nil, models.NewValidationError("assignee_id", "assignee must be maintenance staff or an admin")
	}
	if assignee.OrganizationID == nil || *assignee.OrganizationID != meta.OrganizationID {
		return nil, models.NewValidationError("assignee_id", "assignee must belong to the request's organization")
	}

	a := &models.Assignment{
		RequestID:  requestID,
		AssigneeID: assigneeID,
		AssignerID: p.ID,
		Note:       note,
	}
	var approve *models.StatusUpdate
	if Status(meta.Status) == StatusPending {
		approve = &models.StatusUpdate{
			RequestID: requestID,
			Status:    string(StatusApproved),
			ActorID:   p.ID,
			Note:      AutoApproveNote,
		}
	}
	if err := s.store.AppendAssignment(ctx, a, approve); err != nil {
		return nil, err
	}
	s.logger.Info("request assigned",
		zap.String("request_id", requestID.String()),
		zap.String("assignee_id", assigneeID.String()),
		zap.Bool("auto_approved", approve != nil))

	if s.notifier != nil {
		s.notifier.RequestAssigned(ctx, requestID, assigneeID)
	}
	return a, nil
}
