// Package middleware holds the cross-cutting gin handlers: JWT bearer
// authentication and redis-backed per-IP rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gbocchetta/habitflow-engine/internal/core/services"
)

// ContextUserIDKey is the gin context key under which AuthMiddleware
// stores the authenticated user's ID. Handlers read it via GetUserID.
const ContextUserIDKey = "userID"

const bearerScheme = "Bearer"

// AuthMiddleware guards a route group with JWT bearer auth. The token
// service checks signature, expiry, issuer and that the account still
// exists; every failure maps to the same 401 body so a caller cannot
// tell which check tripped.
func AuthMiddleware(tokenService *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "authorization header required")
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		userID, err := tokenService.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// bearerToken extracts the credential from an Authorization header of
// the exact form "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != bearerScheme {
		return "", false
	}
	return parts[1], true
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// GetUserID reads the authenticated user's ID stored by
// AuthMiddleware. The boolean is false on routes mounted without the
// middleware.
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
