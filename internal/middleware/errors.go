package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/campusfix/backend/internal/models"
	"github.com/campusfix/backend/pkg/response"
)

// RespondError maps the core error taxonomy to HTTP responses. Forbidden is
// always the same body, so denials never reveal whether the resource exists.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		response.NotFound(c, "not found")
	case errors.Is(err, models.ErrForbidden):
		response.Forbidden(c, "forbidden")
	case errors.Is(err, models.ErrInvalidTransition):
		response.Conflict(c, "invalid status transition")
	default:
		if ve, ok := models.AsValidationError(err); ok {
			response.ValidationFailed(c, ve.Fields)
			return
		}
		response.Internal(c, "internal error")
	}
}
