package api

import (
	"context"  // Context for Redis operations
	"errors"   // Sentinel comparison
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Cache TTLs

	"marketplace/internal/domain"     // Domain models
	"marketplace/internal/middleware" // Caller and request id lookups
	"marketplace/internal/service"    // Domain operations
	"marketplace/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// statusFor maps a domain error to the HTTP status returned for it
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrDuplicateUsername),
		errors.Is(err, service.ErrDuplicateEmail),
		errors.Is(err, service.ErrDuplicateCategoryName):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrInsufficientCredit):
		return http.StatusPaymentRequired
	case errors.Is(err, service.ErrBlocked),
		errors.Is(err, service.ErrNotASeller),
		errors.Is(err, service.ErrNotAdmin):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUnknownCategory),
		errors.Is(err, service.ErrUnknownPackage),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidPrice):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondError writes the error response; storage failures are logged and hidden
func respondError(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		middleware.Logger(c).WithField("error", err.Error()).Error(msg) // Keep the cause in the log only
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// currentUser returns the authenticated user id, answering 401 when missing
func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return userID, ok
}

// paramID parses a positive numeric path parameter, answering 400 when invalid
func paramID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(v), true
}

// parsePagination reads page and page_size, ignoring invalid values
func parsePagination(c *gin.Context) service.Page {
	page := service.Page{Number: 1, Size: 20} // Defaults
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page.Number = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			page.Size = v
		}
	}
	return page
}

// totalPages rounds up
func totalPages(total int64, size int) int {
	return (int(total) + size - 1) / size
}

// invalidate drops every cached key under the given prefixes
func invalidate(c *gin.Context, rdb *redis.Client, prefixes ...string) {
	ctx := context.Background()
	for _, prefix := range prefixes {
		if err := utils.DeleteCachePrefix(ctx, rdb, prefix); err != nil {
			middleware.Logger(c).WithField("prefix", prefix).Warn("Cache invalidation failed") // Entries expire on their own
		}
	}
}

// fromCache serves a cached JSON body when present
func fromCache(c *gin.Context, rdb *redis.Client, key string) bool {
	var cached map[string]any
	found, err := utils.GetCache(context.Background(), rdb, key, &cached)
	if err != nil || !found {
		return false
	}
	cached["cached"] = true // Indicate response is from cache
	c.JSON(http.StatusOK, cached)
	return true
}

// respondCached writes body and stores it under key for ttl
func respondCached(c *gin.Context, rdb *redis.Client, key string, body gin.H, ttl time.Duration) {
	body["cached"] = false
	_ = utils.SetCache(context.Background(), rdb, key, body, ttl)
	c.JSON(http.StatusOK, body)
}

// Cache key prefixes
const (
	keyCategories   = "categories:tree"
	keyTickers      = "tickers"
	keyAdminStats   = "admin:stats"
	keyAdminUsers   = "admin:users:"
	keyAdminTxs     = "admin:txs:"
	keyUserTxPrefix = "txhistory:user:"
)

// userTxKey is the prefix of every cached ledger page of a user
func userTxKey(userID uint) string {
	return keyUserTxPrefix + strconv.FormatUint(uint64(userID), 10) + ":"
}
