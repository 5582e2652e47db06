package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/campusfix/backend/internal/access"
	"github.com/campusfix/backend/internal/models"
	"github.com/campusfix/backend/pkg/response"
)

// RequireRole returns a middleware that allows only the given roles. This is
// a coarse route guard; per-request tenant checks live in the access policy.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		val, ok := c.Get(ContextPrincipal)
		if !ok {
			response.Unauthorized(c, "missing user context")
			c.Abort()
			return
		}
		p, _ := val.(access.Principal)
		if _, ok := allowed[p.Role]; !ok {
			response.Forbidden(c, "forbidden")
			c.Abort()
			return
		}
		c.Next()
	}
}
