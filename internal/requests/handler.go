package requests

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusfix/backend/internal/middleware"
	"github.com/campusfix/backend/pkg/response"
)

// Handler exposes request submission and read endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a requests handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /requests.
func (h *Handler) Create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	req, err := h.service.Create(c.Request.Context(), middleware.Principal(c), in)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	response.Created(c, req)
}

// CreateBuildingDetail handles POST /requests/:id/building-detail.
func (h *Handler) CreateBuildingDetail(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}
	var in BuildingDetailInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	d, err := h.service.CreateBuildingDetail(c.Request.Context(), middleware.Principal(c), requestID, in)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	response.Created(c, d)
}

// List handles GET /requests?scope=mine|org|assigned. Scope defaults to mine.
func (h *Handler) List(c *gin.Context) {
	scope := ListScope(c.DefaultQuery("scope", string(ScopeMine)))
	list, err := h.service.List(c.Request.Context(), middleware.Principal(c), scope)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	response.OK(c, list)
}

// Get handles GET /requests/:id: the composed read-model.
func (h *Handler) Get(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid request id")
		return
	}
	details, err := h.service.Details(c.Request.Context(), middleware.Principal(c), requestID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	response.OK(c, details)
}
