package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medislot/appointment-backend/internal/pkg/response"
)

// AuthRequired is a Gin middleware that validates JWT from Authorization: Bearer <token>
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "Missing authorization token")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Abort(c, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		p, err := jwtManager.ParseAndValidate(parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Store the principal into Gin context for later handlers.
		c.Set(principalKey, p)

		c.Next()
	}
}

// RequireUserType rejects principals whose type is not listed.
// It MUST be used after AuthRequired.
func RequireUserType(types ...UserType) gin.HandlerFunc {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	denied := fmt.Sprintf("Access denied. Required user type: %s", strings.Join(names, " or "))

	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		for _, t := range types {
			if p.Type() == t {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, denied)
	}
}
