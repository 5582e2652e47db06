package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusfix/backend/internal/middleware"
	"github.com/campusfix/backend/internal/models"
	"github.com/campusfix/backend/pkg/response"
	"github.com/campusfix/backend/pkg/utils"
)

// OrgResolver resolves an organization by registration slug.
type OrgResolver interface {
	GetBySlug(ctx context.Context, slug string) (*models.Organization, error)
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo   *Repository
	orgs   OrgResolver
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, orgs OrgResolver, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, orgs: orgs, jwt: jwt, logger: logger}
}

// RegisterRequest is the body for POST /auth/register. Public registration
// always creates a requester; staff accounts are provisioned by admins.
type RegisterRequest struct {
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8"`
	FullName         string `json:"full_name" binding:"required"`
	OrganizationSlug string `json:"organization_slug" binding:"required"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	org, err := h.orgs.GetBySlug(c.Request.Context(), req.OrganizationSlug)
	if err != nil || org == nil {
		response.BadRequest(c, "unknown organization")
		return
	}

	existing, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Internal(c, "failed to register")
		return
	}
	if existing != nil {
		response.Conflict(c, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to register")
		return
	}
	u := &models.User{
		Email:          req.Email,
		Password:       hash,
		FullName:       req.FullName,
		Role:           models.RoleRequester,
		OrganizationID: &org.ID,
	}
	if err := h.repo.Create(c.Request.Context(), u); err != nil {
		h.logger.Error("create user failed", zap.Error(err), zap.String("email", req.Email))
		response.Internal(c, "failed to register")
		return
	}

	token, err := h.jwt.Generate(u)
	if err != nil {
		response.Internal(c, "failed to issue token")
		return
	}
	response.Created(c, gin.H{"token": token, "user": u.ToPublic()})
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	u, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Internal(c, "failed to login")
		return
	}
	if u == nil || !utils.CheckPassword(req.Password, u.Password) {
		response.Unauthorized(c, "invalid credentials")
		return
	}

	token, err := h.jwt.Generate(u)
	if err != nil {
		response.Internal(c, "failed to issue token")
		return
	}
	response.OK(c, gin.H{"token": token, "user": u.ToPublic()})
}

// CreateStaffRequest is the body for POST /users (admin provisioning of
// maintenance/admin accounts inside the admin's own organization).
type CreateStaffRequest struct {
	Email    string      `json:"email" binding:"required,email"`
	Password string      `json:"password" binding:"required,min=8"`
	FullName string      `json:"full_name" binding:"required"`
	Role     models.Role `json:"role" binding:"required"`
}

// CreateStaff handles POST /users.
func (h *Handler) CreateStaff(c *gin.Context) {
	p := middleware.Principal(c)
	if p.OrganizationID == nil {
		response.Forbidden(c, "forbidden")
		return
	}

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Role != models.RoleMaintenance && req.Role != models.RoleAdmin {
		response.BadRequest(c, "role must be maintenance or admin")
		return
	}

	existing, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Internal(c, "failed to create user")
		return
	}
	if existing != nil {
		response.Conflict(c, "email already registered")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.Internal(c, "failed to create user")
		return
	}
	u := &models.User{
		Email:          req.Email,
		Password:       hash,
		FullName:       req.FullName,
		Role:           req.Role,
		OrganizationID: p.OrganizationID,
	}
	if err := h.repo.Create(c.Request.Context(), u); err != nil {
		h.logger.Error("create staff user failed", zap.Error(err), zap.String("email", req.Email))
		response.Internal(c, "failed to create user")
		return
	}
	response.Created(c, u.ToPublic())
}

// List handles GET /users: users in the caller's organization, optionally
// filtered by role (e.g. ?role=maintenance for assignee pickers).
func (h *Handler) List(c *gin.Context) {
	p := middleware.Principal(c)
	if p.OrganizationID == nil {
		response.Forbidden(c, "forbidden")
		return
	}
	role := models.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		response.BadRequest(c, "unknown role")
		return
	}
	list, err := h.repo.ListByOrganization(c.Request.Context(), *p.OrganizationID, role)
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		response.Internal(c, "failed to list users")
		return
	}
	response.OK(c, list)
}
