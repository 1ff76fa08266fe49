package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/stackit/backend/internal/access"
	"github.com/emilythestrangee/stackit/backend/internal/auth"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
	RoleKey     = "user_role"
)

// AuthMiddleware validates the bearer token and stores the caller's identity
// in the gin context.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "Missing Authorization header")
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "Invalid Authorization header format")
			return
		}

		claims, err := auth.ParseToken(secret, tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}

// AdminOnly requires the admin role claimed by the token.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(RoleKey)
		roleStr, _ := role.(string)
		if !access.Can(access.Normalize(roleStr), access.ActionAdmin) {
			abort(c, http.StatusForbidden, "forbidden", "Admin access required")
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller's id.
func UserID(c *gin.Context) (uint, bool) {
	raw, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := raw.(uint)
	return id, ok
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}
