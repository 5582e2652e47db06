package lifecycle

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusfix/backend/internal/middleware"
	"github.com/campusfix/backend/internal/models"
	"github.com/campusfix/backend/pkg/response"
)

// Handler exposes status, priority and assignment endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a lifecycle handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// UpdateStatusRequest is the body for PATCH /requests/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note,omitempty"`
}

// UpdatePriorityRequest is the body for PATCH /requests/:id/priority.
type UpdatePriorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

// AssignRequest is the body for POST /requests/:id/assign.
type AssignRequest struct {
	AssigneeID uuid.UUID `json:"assignee_id" binding:"required"`
	Note       string    `json:"note,omitempty"`
}

// UpdateStatus handles PATCH /requests/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	newStatus, err := ParseStatus(req.Status)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	upd, err := h.service.RecordStatusChange(c.Request.Context(), middleware.Principal(c), requestID, newStatus, req.Note)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	response.OK(c, upd)
}

// UpdatePriority handles PATCH /requests/:id/priority.
func (h *Handler) UpdatePriority(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}
	var req UpdatePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.service.UpdatePriority(c.Request.Context(), middleware.Principal(c), requestID, models.Priority(req.Priority)); err != nil {
		middleware.RespondError(c, err)
		return
	}
	response.OK(c, gin.H{"priority": req.Priority})
}

// Assign handles POST /requests/:id/assign.
func (h *Handler) Assign(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	a, err := h.service.AssignAndApprove(c.Request.Context(), middleware.Principal(c), requestID, req.AssigneeID, req.Note)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	response.Created(c, a)
}
