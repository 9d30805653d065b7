package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/movievault/internal/server/auth"
	"github.com/dmitrijs2005/movievault/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	ctxKeyEmail = "email"
	ctxKeyRole  = "role"
)

func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	parts := strings.Split(bearerToken, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// AuthRequired verifies the bearer token and stores the caller identity in
// the request context.
func AuthRequired(secretKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		claims, err := auth.ParseToken(token, secretKey)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		c.Set(ctxKeyEmail, claims.Email)
		c.Set(ctxKeyRole, claims.Role)
		c.Next()
	}
}

// RoleRequired allows the request through only if the authenticated caller
// carries the given role. Must be chained after AuthRequired.
func RoleRequired(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxKeyRole) != string(role) {
			respondError(c, http.StatusForbidden, "forbidden")
			return
		}
		c.Next()
	}
}
