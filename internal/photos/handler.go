package photos

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusfix/backend/internal/access"
	"github.com/campusfix/backend/internal/middleware"
	"github.com/campusfix/backend/internal/models"
	"github.com/campusfix/backend/pkg/response"
	"github.com/campusfix/backend/pkg/storage"
)

// Handler handles request photo endpoints. Uploads go straight to S3 via
// pre-signed URLs; the API only records metadata.
type Handler struct {
	repo   *Repository
	gate   *access.Gate
	s3     *storage.S3
	logger *zap.Logger
}

// NewHandler creates a photos handler. s3 may be nil when blob storage is
// not configured; photo endpoints then report unavailability.
func NewHandler(repo *Repository, gate *access.Gate, s3 *storage.S3, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, gate: gate, s3: s3, logger: logger}
}

// CreateRequest is the body for POST /requests/:id/photos.
type CreateRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
}

// Create handles POST /requests/:id/photos: records metadata and returns a
// pre-signed PUT URL for the binary.
func (h *Handler) Create(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "photo storage not configured")
		return
	}
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
	if !storage.ValidatePhotoFileType(req.ContentType, req.FileName) {
		response.BadRequest(c, "unsupported photo type")
		return
	}
	if req.SizeBytes > storage.MaxPhotoFileSize {
		response.BadRequest(c, "photo exceeds maximum size")
		return
	}

	p := middleware.Principal(c)
	if _, err := h.gate.Authorize(c.Request.Context(), p, requestID, access.OpComment); err != nil {
		middleware.RespondError(c, err)
		return
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = storage.ContentTypeForFilename(req.FileName)
	}
	photoID := uuid.New()
	photo := &models.RequestPhoto{
		ID:          photoID,
		RequestID:   requestID,
		FileName:    req.FileName,
		S3Key:       storage.PhotoKey(requestID.String(), photoID.String(), req.FileName),
		ContentType: contentType,
		SizeBytes:   req.SizeBytes,
		UploadedBy:  p.ID,
	}
	if err := h.repo.Create(c.Request.Context(), photo); err != nil {
		h.logger.Error("create photo metadata failed", zap.Error(err))
		response.Internal(c, "failed to record photo")
		return
	}

	uploadURL, err := h.s3.GeneratePresignedUploadURL(c.Request.Context(),
		h.s3.PhotosBucket(), photo.S3Key, contentType, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign upload failed", zap.Error(err), zap.String("key", photo.S3Key))
		response.Internal(c, "failed to create upload url")
		return
	}
	response.Created(c, gin.H{"photo": photo, "upload_url": uploadURL})
}

// List handles GET /requests/:id/photos.
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
		response.Internal(c, "failed to list photos")
		return
	}
	response.OK(c, list)
}

// DownloadURL handles GET /photos/:id/download-url.
func (h *Handler) DownloadURL(c *gin.Context) {
	if h.s3 == nil {
		response.Internal(c, "photo storage not configured")
		return
	}
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid photo id")
		return
	}
	photo, err := h.repo.GetByID(c.Request.Context(), photoID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	p := middleware.Principal(c)
	if _, err := h.gate.Authorize(c.Request.Context(), p, photo.RequestID, access.OpRead); err != nil {
		middleware.RespondError(c, err)
		return
	}
	url, err := h.s3.GeneratePresignedDownloadURL(c.Request.Context(),
		h.s3.PhotosBucket(), photo.S3Key, h.s3.PresignExpire())
	if err != nil {
		h.logger.Error("presign download failed", zap.Error(err), zap.String("key", photo.S3Key))
		response.Internal(c, "failed to create download url")
		return
	}
	response.OK(c, gin.H{"download_url": url, "expires_in_minutes": int(h.s3.PresignExpire().Minutes())})
}
