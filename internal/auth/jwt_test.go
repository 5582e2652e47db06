package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfix/backend/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	orgID := uuid.New()
	user := &models.User{
		ID:             uuid.New(),
		Email:          "dana@example.edu",
		Role:           models.RoleRequester,
		OrganizationID: &orgID,
	}

	token, err := svc.Generate(user)
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, models.RoleRequester, claims.Role)
	require.NotNil(t, claims.OrganizationID)
	assert.Equal(t, orgID, *claims.OrganizationID)
}

func TestJWTPrincipalFromToken(t *testing.T) {
	svc := NewJWTService("test-secret", 1)

	t.Run("super admin has no organization", func(t *testing.T) {
		user := &models.User{ID: uuid.New(), Email: "root@example.edu", Role: models.RoleSuperAdmin}
		token, err := svc.Generate(user)
		require.NoError(t, err)

		p, err := svc.PrincipalFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, p.ID)
		assert.Equal(t, models.RoleSuperAdmin, p.Role)
		assert.Nil(t, p.OrganizationID)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
		token, err := svc.Generate(user)
		require.NoError(t, err)

		other := NewJWTService("different-secret", 1)
		_, err = other.PrincipalFromToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := svc.PrincipalFromToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
