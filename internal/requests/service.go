package requests

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusfix/backend/internal/access"
	"github.com/campusfix/backend/internal/models"
)

// Store persists requests and their detail records.
type Store interface {
	// CreateRequest inserts the request row and, when detail is non-nil, the
	// facilities detail row in one transaction. Fills ID and timestamps.
	CreateRequest(ctx context.Context, req *models.Request, detail *models.FacilitiesDetail) error
	CreateBuildingDetail(ctx context.Context, d *models.BuildingDetail) error
	GetRequest(ctx context.Context, id uuid.UUID) (*models.Request, error)
	GetFacilitiesDetail(ctx context.Context, requestID uuid.UUID) (*models.FacilitiesDetail, error)
	GetBuildingDetail(ctx context.Context, requestID uuid.UUID) (*models.BuildingDetail, error)
	GetUserPublic(ctx context.Context, id uuid.UUID) (*models.UserPublic, error)
	CurrentAssignee(ctx context.Context, requestID uuid.UUID) (*models.Assignment, error)
	ListByRequestor(ctx context.Context, userID uuid.UUID) ([]models.Request, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.Request, error)
	ListByAssignee(ctx context.Context, userID uuid.UUID) ([]models.Request, error)
}

// Notifier receives best-effort submission notifications.
type Notifier interface {
	RequestSubmitted(ctx context.Context, requestID uuid.UUID)
}

// Details is the composed read-model for one request: the detail record, the
// requestor identity and the current assignee resolved at read time.
type Details struct {
	Request    models.Request           `json:"request"`
	Facilities *models.FacilitiesDetail `json:"facilities,omitempty"`
	Building   *models.BuildingDetail   `json:"building,omitempty"`
	Requestor  models.UserPublic        `json:"requestor"`
	Assignee   *models.UserPublic       `json:"assignee,omitempty"`
}

// Service is the request store: submission, detail records and read-models.
type Service struct {
	store    Store
	gate     *access.Gate
	notifier Notifier
	logger   *zap.Logger
}

// NewService creates a request service. notifier may be nil.
func NewService(store Store, gate *access.Gate, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, gate: gate, notifier: notifier, logger: logger}
}

// Create submits a new request on the principal's own behalf, inside the
// principal's organization. New requests start pending. Notification dispatch
// is best-effort and never fails the submission.
func (s *Service) Create(ctx context.Context, p access.Principal, in CreateInput) (*models.Request, error) {
	if p.OrganizationID == nil {
		return nil, models.ErrForbidden
	}
	if err := ValidateCreate(in); err != nil {
		return nil, err
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	req := &models.Request{
		OrganizationID: *p.OrganizationID,
		RequestType:    in.RequestType,
		RequestorID:    p.ID,
		Title:          in.Title,
		Description:    in.Description,
		Status:         "pending",
		Priority:       priority,
	}
	var detail *models.FacilitiesDetail
	if in.RequestType == models.RequestTypeFacilities {
		detail = &models.FacilitiesDetail{
			EventName: in.Facilities.EventName,
			Location:  in.Facilities.Location,
			EventDate: in.Facilities.EventDate,
			Items:     in.Facilities.Items,
			Notes:     in.Facilities.Notes,
		}
	}
	if err := s.store.CreateRequest(ctx, req, detail); err != nil {
		return nil, err
	}
	s.logger.Info("request submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("request_type", string(req.RequestType)),
		zap.String("requestor_id", p.ID.String()))

	if s.notifier != nil {
		s.notifier.RequestSubmitted(ctx, req.ID)
	}
	return req, nil
}

// CreateBuildingDetail attaches the 1:1 building detail to an existing
// building-type request.
func (s *Service) CreateBuildingDetail(ctx context.Context, p access.Principal, requestID uuid.UUID, in BuildingDetailInput) (*models.BuildingDetail, error) {
	meta, err := s.gate.Authorize(ctx, p, requestID, access.OpComment)
	if err != nil {
		return nil, err
	}
	if err := ValidateBuildingDetail(in); err != nil {
		return nil, err
	}
	req, err := s.store.GetRequest(ctx, meta.ID)
	if err != nil {
		return nil, err
	}
	if req.RequestType != models.RequestTypeBuilding {
		return nil, models.NewValidationError("request_type", "request is not a building request")
	}
	d := &models.BuildingDetail{
		RequestID:   requestID,
		Building:    in.Building,
		RoomNumber:  in.RoomNumber,
		Description: in.Description,
	}
	if err := s.store.CreateBuildingDetail(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Details returns the composed read-model for one request.
func (s *Service) Details(ctx context.Context, p access.Principal, requestID uuid.UUID) (*Details, error) {
	if _, err := s.gate.Authorize(ctx, p, requestID, access.OpRead); err != nil {
		return nil, err
	}
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	requestor, err := s.store.GetUserPublic(ctx, req.RequestorID)
	if err != nil {
		return nil, err
	}

	out := &Details{Request: *req, Requestor: *requestor}
	switch req.RequestType {
	case models.RequestTypeFacilities:
		out.Facilities, err = s.store.GetFacilitiesDetail(ctx, requestID)
	case models.RequestTypeBuilding:
		out.Building, err = s.store.GetBuildingDetail(ctx, requestID)
	}
	if err != nil {
		return nil, err
	}

	current, err := s.store.CurrentAssignee(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		assignee, err := s.store.GetUserPublic(ctx, current.AssigneeID)
		if err != nil {
			return nil, err
		}
		out.Assignee = assignee
	}
	return out, nil
}

// ListScope identifies a request listing scope.
type ListScope string

const (
	ScopeMine     ListScope = "mine"
	ScopeOrg      ListScope = "org"
	ScopeAssigned ListScope = "assigned"
)

// List returns requests visible to the principal under the given scope. The
// org scope is limited to admin/maintenance and always to their own tenant.
func (s *Service) List(ctx context.Context, p access.Principal, scope ListScope) ([]models.Request, error) {
	switch scope {
	case ScopeMine:
		return s.store.ListByRequestor(ctx, p.ID)
	case ScopeAssigned:
		return s.store.ListByAssignee(ctx, p.ID)
	case ScopeOrg:
		if p.Role != models.RoleAdmin && p.Role != models.RoleMaintenance {
			return nil, models.ErrForbidden
		}
		if p.OrganizationID == nil {
			return nil, models.ErrForbidden
		}
		return s.store.ListByOrganization(ctx, *p.OrganizationID)
	default:
		return nil, models.NewValidationError("scope", "must be mine, org or assigned")
	}
}
