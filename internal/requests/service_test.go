package requests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfix/backend/internal/access"
	"github.com/campusfix/backend/internal/models"
)

// fakeRequestStore backs both the request service and the access gate.
type fakeRequestStore struct {
	requests        map[uuid.UUID]*models.Request
	facilities      map[uuid.UUID]*models.FacilitiesDetail
	building        map[uuid.UUID]*models.BuildingDetail
	users           map[uuid.UUID]*models.UserPublic
	currentAssignee map[uuid.UUID]*models.Assignment
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{
		requests:        map[uuid.UUID]*models.Request{},
		facilities:      map[uuid.UUID]*models.FacilitiesDetail{},
		building:        map[uuid.UUID]*models.BuildingDetail{},
		users:           map[uuid.UUID]*models.UserPublic{},
		currentAssignee: map[uuid.UUID]*models.Assignment{},
	}
}

func (s *fakeRequestStore) CreateRequest(_ context.Context, req *models.Request, detail *models.FacilitiesDetail) error {
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	s.requests[req.ID] = req
	if detail != nil {
		detail.RequestID = req.ID
		s.facilities[req.ID] = detail
	}
	return nil
}

func (s *fakeRequestStore) CreateBuildingDetail(_ context.Context, d *models.BuildingDetail) error {
	s.building[d.RequestID] = d
	return nil
}

func (s *fakeRequestStore) GetRequest(_ context.Context, id uuid.UUID) (*models.Request, error) {
	r, ok := s.requests[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return r, nil
}

func (s *fakeRequestStore) GetFacilitiesDetail(_ context.Context, requestID uuid.UUID) (*models.FacilitiesDetail, error) {
	d, ok := s.facilities[requestID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return d, nil
}

func (s *fakeRequestStore) GetBuildingDetail(_ context.Context, requestID uuid.UUID) (*models.BuildingDetail, error) {
	d, ok := s.building[requestID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return d, nil
}

func (s *fakeRequestStore) GetUserPublic(_ context.Context, id uuid.UUID) (*models.UserPublic, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return u, nil
}

func (s *fakeRequestStore) CurrentAssignee(_ context.Context, requestID uuid.UUID) (*models.Assignment, error) {
	return s.currentAssignee[requestID], nil
}

func (s *fakeRequestStore) ListByRequestor(_ context.Context, userID uuid.UUID) ([]models.Request, error) {
	var out []models.Request
	for _, r := range s.requests {
		if r.RequestorID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeRequestStore) ListByOrganization(_ context.Context, orgID uuid.UUID) ([]models.Request, error) {
	var out []models.Request
	for _, r := range s.requests {
		if r.OrganizationID == orgID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeRequestStore) ListByAssignee(_ context.Context, userID uuid.UUID) ([]models.Request, error) {
	var out []models.Request
	for id, a := range s.currentAssignee {
		if a != nil && a.AssigneeID == userID {
			out = append(out, *s.requests[id])
		}
	}
	return out, nil
}

// GetRequestMeta makes the fake double as the access gate's meta store.
func (s *fakeRequestStore) GetRequestMeta(_ context.Context, id uuid.UUID) (*access.RequestMeta, error) {
	r, ok := s.requests[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	meta := &access.RequestMeta{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		RequestorID:    r.RequestorID,
		Status:         r.Status,
	}
	if a := s.currentAssignee[id]; a != nil {
		meta.AssigneeID = &a.AssigneeID
	}
	return meta, nil
}

type fakeSubmitNotifier struct {
	submitted []uuid.UUID
}

func (n *fakeSubmitNotifier) RequestSubmitted(_ context.Context, requestID uuid.UUID) {
	n.submitted = append(n.submitted, requestID)
}

func newRequestService(store *fakeRequestStore, notifier Notifier) *Service {
	return NewService(store, access.NewGate(store), notifier, nil)
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	requestor := access.Principal{ID: uuid.New(), Role: models.RoleRequester, OrganizationID: &orgID}

	t.Run("facilities request starts pending with detail row", func(t *testing.T) {
		store := newFakeRequestStore()
		notifier := &fakeSubmitNotifier{}
		svc := newRequestService(store, notifier)

		req, err := svc.Create(ctx, requestor, validFacilitiesInput())
		require.NoError(t, err)

		assert.Equal(t, "pending", req.Status)
		assert.Equal(t, models.PriorityMedium, req.Priority)
		assert.Equal(t, orgID, req.OrganizationID)
		assert.Equal(t, requestor.ID, req.RequestorID)
		require.Contains(t, store.facilities, req.ID)
		assert.Equal(t, "Fall Orientation", store.facilities[req.ID].EventName)
		assert.Equal(t, []uuid.UUID{req.ID}, notifier.submitted)
	})

	t.Run("item quantities survive the round trip untouched", func(t *testing.T) {
		store := newFakeRequestStore()
		svc := newRequestService(store, nil)

		items := json.RawMessage(`{"chairs":40,"tables":6,"projector":true}`)
		in := validFacilitiesInput()
		in.Facilities.Items = items
		req, err := svc.Create(ctx, requestor, in)
		require.NoError(t, err)

		stored, err := store.GetFacilitiesDetail(ctx, req.ID)
		require.NoError(t, err)
		assert.JSONEq(t, string(items), string(stored.Items))
	})

	t.Run("explicit priority is kept", func(t *testing.T) {
		store := newFakeRequestStore()
		svc := newRequestService(store, nil)

		in := validFacilitiesInput()
		in.Priority = models.PriorityUrgent
		req, err := svc.Create(ctx, requestor, in)
		require.NoError(t, err)
		assert.Equal(t, models.PriorityUrgent, req.Priority)
	})

	t.Run("building request has no facilities detail", func(t *testing.T) {
		store := newFakeRequestStore()
		svc := newRequestService(store, nil)

		req, err := svc.Create(ctx, requestor, CreateInput{
			RequestType: models.RequestTypeBuilding,
			Title:       "Leaky faucet",
		})
		require.NoError(t, err)
		assert.NotContains(t, store.facilities, req.ID)
	})

	t.Run("principal without org cannot submit", func(t *testing.T) {
		svc := newRequestService(newFakeRequestStore(), nil)
		super := access.Principal{ID: uuid.New(), Role: models.RoleSuperAdmin}
		_, err := svc.Create(ctx, super, validFacilitiesInput())
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("invalid input never reaches the store", func(t *testing.T) {
		store := newFakeRequestStore()
		svc := newRequestService(store, nil)
		_, err := svc.Create(ctx, requestor, CreateInput{RequestType: models.RequestTypeFacilities})
		_, ok := models.AsValidationError(err)
		assert.True(t, ok)
		assert.Empty(t, store.requests)
	})
}

func TestServiceDetails(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	requestor := access.Principal{ID: uuid.New(), Role: models.RoleRequester, OrganizationID: &orgID}

	store := newFakeRequestStore()
	svc := newRequestService(store, nil)
	req, err := svc.Create(ctx, requestor, validFacilitiesInput())
	require.NoError(t, err)

	staffID := uuid.New()
	store.users[requestor.ID] = &models.UserPublic{ID: requestor.ID, FullName: "Dana Reyes"}
	store.users[staffID] = &models.UserPublic{ID: staffID, FullName: "Lee Chen"}
	store.currentAssignee[req.ID] = &models.Assignment{RequestID: req.ID, AssigneeID: staffID}

	t.Run("composes detail, requestor and current assignee", func(t *testing.T) {
		d, err := svc.Details(ctx, requestor, req.ID)
		require.NoError(t, err)
		assert.Equal(t, req.ID, d.Request.ID)
		require.NotNil(t, d.Facilities)
		assert.Equal(t, "Fall Orientation", d.Facilities.EventName)
		assert.Equal(t, "Dana Reyes", d.Requestor.FullName)
		require.NotNil(t, d.Assignee)
		assert.Equal(t, "Lee Chen", d.Assignee.FullName)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		stranger := access.Principal{ID: uuid.New(), Role: models.RoleRequester, OrganizationID: &orgID}
		_, err := svc.Details(ctx, stranger, req.ID)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("assignee can read", func(t *testing.T) {
		assignee := access.Principal{ID: staffID, Role: models.RoleMaintenance, OrganizationID: &orgID}
		_, err := svc.Details(ctx, assignee, req.ID)
		assert.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Details(ctx, requestor, uuid.New())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestServiceCreateBuildingDetail(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	requestor := access.Principal{ID: uuid.New(), Role: models.RoleRequester, OrganizationID: &orgID}

	store := newFakeRequestStore()
	svc := newRequestService(store, nil)

	buildingReq, err := svc.Create(ctx, requestor, CreateInput{
		RequestType: models.RequestTypeBuilding,
		Title:       "Broken window",
	})
	require.NoError(t, err)
	facilitiesReq, err := svc.Create(ctx, requestor, validFacilitiesInput())
	require.NoError(t, err)

	t.Run("attaches to a building request", func(t *testing.T) {
		d, err := svc.CreateBuildingDetail(ctx, requestor, buildingReq.ID, BuildingDetailInput{
			Building:   "Science Hall",
			RoomNumber: "204",
		})
		require.NoError(t, err)
		assert.Equal(t, buildingReq.ID, d.RequestID)
		assert.Contains(t, store.building, buildingReq.ID)
	})

	t.Run("rejected on a facilities request", func(t *testing.T) {
		_, err := svc.CreateBuildingDetail(ctx, requestor, facilitiesReq.ID, BuildingDetailInput{Building: "Science Hall"})
		_, ok := models.AsValidationError(err)
		assert.True(t, ok)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		stranger := access.Principal{ID: uuid.New(), Role: models.RoleRequester, OrganizationID: &orgID}
		_, err := svc.CreateBuildingDetail(ctx, stranger, buildingReq.ID, BuildingDetailInput{Building: "Science Hall"})
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	requestor := access.Principal{ID: uuid.New(), Role: models.RoleRequester, OrganizationID: &orgID}
	admin := access.Principal{ID: uuid.New(), Role: models.RoleAdmin, OrganizationID: &orgID}

	store := newFakeRequestStore()
	svc := newRequestService(store, nil)

	req, err := svc.Create(ctx, requestor, validFacilitiesInput())
	require.NoError(t, err)
	staffID := uuid.New()
	store.currentAssignee[req.ID] = &models.Assignment{RequestID: req.ID, AssigneeID: staffID}

	t.Run("mine", func(t *testing.T) {
		list, err := svc.List(ctx, requestor, ScopeMine)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("assigned", func(t *testing.T) {
		staff := access.Principal{ID: staffID, Role: models.RoleMaintenance, OrganizationID: &orgID}
		list, err := svc.List(ctx, staff, ScopeAssigned)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("org scope for admins", func(t *testing.T) {
		list, err := svc.List(ctx, admin, ScopeOrg)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("org scope denied for requesters", func(t *testing.T) {
		_, err := svc.List(ctx, requestor, ScopeOrg)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("unknown scope", func(t *testing.T) {
		_, err := svc.List(ctx, requestor, ListScope("everything"))
		_, ok := models.AsValidationError(err)
		assert.True(t, ok)
	})
}
