package organizations

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusfix/backend/internal/middleware"
	"github.com/campusfix/backend/internal/models"
	"github.com/campusfix/backend/pkg/response"
)

// MemberLister lists an organization's users, optionally filtered by role.
type MemberLister interface {
	ListByOrganization(ctx context.Context, orgID uuid.UUID, role models.Role) ([]models.UserPublic, error)
}

// Handler handles organization HTTP endpoints.
type Handler struct {
	repo    *Repository
	members MemberLister
}

// NewHandler creates an organizations handler.
func NewHandler(repo *Repository, members MemberLister) *Handler {
	return &Handler{repo: repo, members: members}
}

// CreateRequest is the body for POST /organizations (super_admin only).
type CreateRequest struct {
	Name   string `json:"name" binding:"required"`
	Slug   string `json:"slug" binding:"required"`
	Domain string `json:"domain,omitempty"`
}

// Create handles POST /organizations.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	existing, err := h.repo.GetBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		response.Internal(c, "failed to create organization")
		return
	}
	if existing != nil {
		response.Conflict(c, "slug already in use")
		return
	}
	org := &models.Organization{Name: req.Name, Slug: req.Slug, Domain: req.Domain}
	if err := h.repo.Create(c.Request.Context(), org); err != nil {
		response.Internal(c, "failed to create organization")
		return
	}
	response.Created(c, org)
}

// GetMine handles GET /organizations/me: the caller's own organization.
func (h *Handler) GetMine(c *gin.Context) {
	p := middleware.Principal(c)
	if p.OrganizationID == nil {
		response.NotFound(c, "not found")
		return
	}
	org, err := h.repo.GetByID(c.Request.Context(), *p.OrganizationID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	response.OK(c, org)
}

// ListMembers handles GET /organizations/:id/members. Admins see their own
// organization; super admins may read any.
func (h *Handler) ListMembers(c *gin.Context) {
	orgID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organization id")
		return
	}
	p := middleware.Principal(c)
	sameOrg := p.OrganizationID != nil && *p.OrganizationID == orgID
	if !(p.Role == models.RoleSuperAdmin || (p.Role == models.RoleAdmin && sameOrg)) {
		response.Forbidden(c, "forbidden")
		return
	}
	role := models.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		response.BadRequest(c, "unknown role")
		return
	}
	list, err := h.members.ListByOrganization(c.Request.Context(), orgID, role)
	if err != nil {
		response.Internal(c, "failed to list members")
		return
	}
	response.OK(c, list)
}
