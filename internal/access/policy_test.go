package access

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfix/backend/internal/models"
)

func ptr(id uuid.UUID) *uuid.UUID { return &id }

func TestEvaluate(t *testing.T) {
	orgA := uuid.New()
	orgB := uuid.New()
	requestor := uuid.New()
	assignee := uuid.New()

	req := RequestMeta{
		ID:             uuid.New(),
		OrganizationID: orgA,
		RequestorID:    requestor,
		AssigneeID:     ptr(assignee),
		Status:         "approved",
	}

	allOps := []Operation{OpRead, OpComment, OpUpdateStatus, OpUpdatePriority, OpAssign, OpCancel}

	tests := []struct {
		name      string
		principal Principal
		op        Operation
		want      bool
	}{
		{
			name:      "super admin reads across organizations",
			principal: Principal{ID: uuid.New(), Role: models.RoleSuperAdmin},
			op:        OpRead,
			want:      true,
		},
		{
			name:      "super admin cannot update status",
			principal: Principal{ID: uuid.New(), Role: models.RoleSuperAdmin},
			op:        OpUpdateStatus,
			want:      false,
		},
		{
			name:      "super admin cannot assign",
			principal: Principal{ID: uuid.New(), Role: models.RoleSuperAdmin},
			op:        OpAssign,
			want:      false,
		},
		{
			name:      "admin same org updates status",
			principal: Principal{ID: uuid.New(), Role: models.RoleAdmin, OrganizationID: ptr(orgA)},
			op:        OpUpdateStatus,
			want:      true,
		},
		{
			name:      "admin other org cannot read",
			principal: Principal{ID: uuid.New(), Role: models.RoleAdmin, OrganizationID: ptr(orgB)},
			op:        OpRead,
			want:      false,
		},
		{
			name:      "maintenance same org assigns",
			principal: Principal{ID: uuid.New(), Role: models.RoleMaintenance, OrganizationID: ptr(orgA)},
			op:        OpAssign,
			want:      true,
		},
		{
			name:      "maintenance other org cannot comment",
			principal: Principal{ID: uuid.New(), Role: models.RoleMaintenance, OrganizationID: ptr(orgB)},
			op:        OpComment,
			want:      false,
		},
		{
			name:      "requestor reads own request",
			principal: Principal{ID: requestor, Role: models.RoleRequester, OrganizationID: ptr(orgA)},
			op:        OpRead,
			want:      true,
		},
		{
			name:      "requestor comments on own request",
			principal: Principal{ID: requestor, Role: models.RoleRequester, OrganizationID: ptr(orgA)},
			op:        OpComment,
			want:      true,
		},
		{
			name:      "requestor cancels own request",
			principal: Principal{ID: requestor, Role: models.RoleRequester, OrganizationID: ptr(orgA)},
			op:        OpCancel,
			want:      true,
		},
		{
			name:      "requestor cannot update status",
			principal: Principal{ID: requestor, Role: models.RoleRequester, OrganizationID: ptr(orgA)},
			op:        OpUpdateStatus,
			want:      false,
		},
		{
			name:      "requestor cannot assign",
			principal: Principal{ID: requestor, Role: models.RoleRequester, OrganizationID: ptr(orgA)},
			op:        OpAssign,
			want:      false,
		},
		{
			name:      "other requester same org cannot read",
			principal: Principal{ID: uuid.New(), Role: models.RoleRequester, OrganizationID: ptr(orgA)},
			op:        OpRead,
			want:      false,
		},
		{
			name:      "assignee reads",
			principal: Principal{ID: assignee, Role: models.RoleRequester, OrganizationID: ptr(orgA)},
			op:        OpRead,
			want:      true,
		},
		{
			name:      "assignee comments",
			principal: Principal{ID: assignee, Role: models.RoleRequester, OrganizationID: ptr(orgA)},
			op:        OpComment,
			want:      true,
		},
		{
			name:      "assignee cannot cancel",
			principal: Principal{ID: assignee, Role: models.RoleRequester, OrganizationID: ptr(orgA)},
			op:        OpCancel,
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.principal, req, tt.op))
		})
	}

	t.Run("admin without org is denied everything", func(t *testing.T) {
		p := Principal{ID: uuid.New(), Role: models.RoleAdmin}
		for _, op := range allOps {
			assert.False(t, Evaluate(p, req, op), "op %s", op)
		}
	})

	t.Run("unassigned request grants nothing to former candidates", func(t *testing.T) {
		unassigned := req
		unassigned.AssigneeID = nil
		p := Principal{ID: assignee, Role: models.RoleRequester, OrganizationID: ptr(orgA)}
		assert.False(t, Evaluate(p, unassigned, OpRead))
	})
}

type stubMetaStore struct {
	meta map[uuid.UUID]*RequestMeta
}

func (s *stubMetaStore) GetRequestMeta(_ context.Context, id uuid.UUID) (*RequestMeta, error) {
	if m, ok := s.meta[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, models.ErrNotFound
}

func TestGate(t *testing.T) {
	orgA := uuid.New()
	requestor := uuid.New()
	req := &RequestMeta{
		ID:             uuid.New(),
		OrganizationID: orgA,
		RequestorID:    requestor,
		Status:         "pending",
	}
	gate := NewGate(&stubMetaStore{meta: map[uuid.UUID]*RequestMeta{req.ID: req}})
	ctx := context.Background()

	t.Run("authorize returns meta on success", func(t *testing.T) {
		p := Principal{ID: requestor, Role: models.RoleRequester, OrganizationID: ptr(orgA)}
		meta, err := gate.Authorize(ctx, p, req.ID, OpRead)
		require.NoError(t, err)
		assert.Equal(t, req.ID, meta.ID)
	})

	t.Run("authorize denies with forbidden", func(t *testing.T) {
		p := Principal{ID: uuid.New(), Role: models.RoleRequester, OrganizationID: ptr(orgA)}
		_, err := gate.Authorize(ctx, p, req.ID, OpRead)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("unknown request id maps to not found", func(t *testing.T) {
		p := Principal{ID: requestor, Role: models.RoleRequester, OrganizationID: ptr(orgA)}
		_, err := gate.Authorize(ctx, p, uuid.New(), OpRead)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("is requestor ignores role", func(t *testing.T) {
		ok, err := gate.IsRequestor(ctx, requestor, req.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = gate.IsRequestor(ctx, uuid.New(), req.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
