package api

import (
	"net/http" // HTTP status codes
	"regexp"   // Regular expressions

	"marketplace/internal/service" // Domain operations
	"marketplace/internal/utils"   // JWT helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Structured logging
)

// RegisterRequest is the sign-up form
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"` // Letters, digits and underscores
	Email    string `json:"email" binding:"required,email,max=120"`   // Contact email, unique
	Password string `json:"password" binding:"required"`              // Checked by isValidPassword
	IsSeller bool   `json:"is_seller"`                                // Also register as a seller
	TaxID    string `json:"tax_id" binding:"max=20"`                  // Optional tax identifier
}

// LoginRequest is the sign-in form
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the issued token
type AuthResponse struct {
	Token     string `json:"token"`      // JWT token
	ExpiresIn int    `json:"expires_in"` // Seconds until expiry
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// isValidUsername checks the username only uses letters, digits and underscores
func isValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// isValidPassword checks if the password length is between 8 and 64 characters
func isValidPassword(password string) bool {
	return len(password) >= 8 && len(password) <= 64
}

// RegisterHandler creates a buyer account, optionally also a seller
func RegisterHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if !isValidUsername(req.Username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username may only contain letters, digits and underscores"})
			return
		}
		if !isValidPassword(req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be 8-64 characters"})
			return
		}
		user, err := svc.Register(c.Request.Context(), service.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			IsSeller: req.IsSeller,
			TaxID:    req.TaxID,
		})
		if err != nil {
			respondError(c, err, "Registration failed") // 409 on duplicate username or email
			return
		}
		invalidate(c, rdb, keyAdminUsers, keyAdminStats) // New row in the admin listings
		c.JSON(http.StatusCreated, gin.H{"message": "Registration successful", "user": user})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(svc *service.Service, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := svc.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err, "Login failed") // Same message for unknown user and wrong password
			return
		}
		token, err := utils.GenerateJWT(user.ID, user.Username, jwtSecret)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": user.ID, "error": err.Error()}).Error("Failed to sign token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		logrus.WithField("user_id", user.ID).Info("User logged in")
		c.JSON(http.StatusOK, AuthResponse{Token: token, ExpiresIn: int(utils.TokenTTL.Seconds())})
	}
}

// MeHandler returns the authenticated user's profile and balance
func MeHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		user, err := svc.GetUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, "Failed to load user")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user":        user,                                // Profile and flags
			"can_request": svc.Policy().CanCreateRequest(user), // Holds at least one credit
			"can_bid":     svc.Policy().CanBid(user),           // Is a seller
			"is_admin":    svc.Policy().CanAdminister(user),    // May use the admin routes
		})
	}
}
