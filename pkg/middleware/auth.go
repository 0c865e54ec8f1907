package middleware

import (
	"ai-influencer-studio/backend/pkg/errors"
	"ai-influencer-studio/backend/pkg/jwt"
	"ai-influencer-studio/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks that the request carries a valid provider-issued access
// token and adds the claims to the context
func AuthMiddleware(jwtService *jwt.Service, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.Error(errors.NewUnauthorizedError("AUTH_REQUIRED", "Authorization header is required"))
			c.Abort()
			return
		}

		// Strip "Bearer " prefix if present
		if len(token) > 7 && token[:7] == "Bearer " {
			token = token[7:]
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			log.Warn("Invalid access token", "error", err.Error())
			c.Error(errors.NewUnauthorizedError("INVALID_TOKEN", "Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("userId", claims.UserID())
		c.Set("userEmail", claims.Email)

		c.Next()
	}
}

// UserID returns the authenticated user's identifier from the context
func UserID(c *gin.Context) string {
	if id, exists := c.Get("userId"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// RoleLookup resolves the application role for a user identifier.
// The profiles table is authoritative, not the token.
type RoleLookup func(userID string) (string, error)

// RequireAdmin returns a middleware that requires the authenticated user to have
// the admin role
func RequireAdmin(lookup RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := UserID(c)
		if userID == "" {
			c.Error(errors.NewUnauthorizedError("AUTH_REQUIRED", "Authentication required"))
			c.Abort()
			return
		}

		role, err := lookup(userID)
		if err != nil || role != "admin" {
			c.Error(errors.NewForbiddenError("ADMIN_REQUIRED", "Admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
