package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campusfix/backend/internal/access"
	"github.com/campusfix/backend/pkg/response"
)

// ContextPrincipal is the gin context key for the authenticated principal.
const ContextPrincipal = "principal"

// ValidateToken turns a bearer token into a principal, or fails.
type ValidateToken func(token string) (access.Principal, error)

// JWT returns a middleware that validates the bearer token and stores an
// explicit access.Principal in the context. Core calls receive the principal
// as a parameter; nothing downstream reads token state directly.
func JWT(validate ValidateToken) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		p, err := validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextPrincipal, p)
		c.Next()
	}
}

// Principal returns the authenticated principal set by the JWT middleware.
func Principal(c *gin.Context) access.Principal {
	return c.MustGet(ContextPrincipal).(access.Principal)
}
