package messages

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusfix/backend/internal/access"
	"github.com/campusfix/backend/internal/middleware"
	"github.com/campusfix/backend/internal/models"
	"github.com/campusfix/backend/pkg/response"
)

// Handler handles request message endpoints. Reads require read access to
// the request; authorship requires comment access.
type Handler struct {
	repo *Repository
	gate *access.Gate
}

// NewHandler creates a messages handler.
func NewHandler(repo *Repository, gate *access.Gate) *Handler {
	return &Handler{repo: repo, gate: gate}
}

// CreateRequest is the body for POST /requests/:id/messages.
type CreateRequest struct {
	Body string `json:"body" binding:"required"`
}

// Create handles POST /requests/:id/messages.
func (h *Handler) Create(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	p := middleware.Principal(c)
	if _, err := h.gate.Authorize(c.Request.Context(), p, requestID, access.OpComment); err != nil {
		middleware.RespondError(c, err)
		return
	}

	m := &models.Message{RequestID: requestID, AuthorID: p.ID, Body: req.Body}
	if err := h.repo.Create(c.Request.Context(), m); err != nil {
		response.Internal(c, "failed to create message")
		return
	}
	response.Created(c, m)
}

// List handles GET /requests/:id/messages.
func (h *Handler) List(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}
	p := middleware.Principal(c)
	if _, err := h.gate.Authorize(c.Request.Context(), p, requestID, access.OpRead); err != nil {
		middleware.RespondError(c, err)
		return
	}
	list, err := h.repo.ListByRequest(c.Request.Context(), requestID)
	if err != nil {
		response.Internal(c, "failed to list messages")
		return
	}
	response.OK(c, list)
}
