package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"marketplace/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by the auth middleware
const (
	UserIDKey   = "userID"   // uint id of the authenticated user
	UsernameKey = "username" // username carried by the token
)

// JWTAuthMiddleware validates bearer tokens and stores the caller in the context
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := utils.ParseJWT(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil || claims.UserID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(UserIDKey, claims.UserID)     // Read back with CurrentUserID
		c.Set(UsernameKey, claims.Username) // For log fields
		c.Next()
	}
}

// CurrentUserID returns the id stored by JWTAuthMiddleware
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
