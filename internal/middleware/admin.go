package middleware

import (
	"errors"   // Sentinel comparison
	"net/http" // HTTP status codes

	"marketplace/internal/service"

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// AdminOnlyMiddleware loads the caller on each request and checks the admin policy,
// so revoking the flag takes effect without waiting for the token to expire
func AdminOnlyMiddleware(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := svc.GetUser(c.Request.Context(), userID)
		if err != nil && !errors.Is(err, service.ErrNotFound) {
			Logger(c).WithFields(logrus.Fields{"user_id": userID, "error": err.Error()}).Error("Failed to load user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			return
		}
		if err != nil || !svc.Policy().CanAdminister(user) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
