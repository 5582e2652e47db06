package timeline

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusfix/backend/internal/access"
	"github.com/campusfix/backend/internal/middleware"
	"github.com/campusfix/backend/pkg/response"
)

// Handler serves the merged request timeline.
type Handler struct {
	service *Service
	gate    *access.Gate
}

// NewHandler creates a timeline handler.
func NewHandler(service *Service, gate *access.Gate) *Handler {
	return &Handler{service: service, gate: gate}
}

// Get handles GET /requests/:id/timeline.
func (h *Handler) Get(c *gin.Context) {
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
	tl, err := h.service.Timeline(c.Request.Context(), requestID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	response.OK(c, tl)
}
