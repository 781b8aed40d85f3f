package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Date filters

	"marketplace/internal/domain"     // Domain models
	"marketplace/internal/middleware" // Caller lookup and logging
	"marketplace/internal/service"    // Domain operations
	"marketplace/internal/utils"      // Cache TTLs

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// GrantCreditsRequest is a manual balance adjustment
type GrantCreditsRequest struct {
	Amount int `json:"amount" binding:"required,ne=0"` // Signed, negative removes credits
}

// AddCategoryRequest creates a category node
type AddCategoryRequest struct {
	Name     string `json:"name" binding:"required,max=100"` // Unique name
	ParentID *uint  `json:"parent_id"`                       // Omit for a top-level category
	Schema   string `json:"schema"`                          // Expected request fields
}

// AddTickerRequest creates a ticker
type AddTickerRequest struct {
	Name       string `json:"name" binding:"required,max=50"`  // e.g. "USD/TRY"
	Value      string `json:"value" binding:"required,max=50"` // Current value
	ChangeRate string `json:"change_rate" binding:"max=20"`    // e.g. "+0.5%"
}

// UpdateSettingsRequest changes the provided fields only
type UpdateSettingsRequest struct {
	LogoURL      *string `json:"logo_url" binding:"omitempty,max=255"`
	ContactInfo  *string `json:"contact_info" binding:"omitempty,max=255"`
	SEOTitle     *string `json:"seo_title" binding:"omitempty,max=255"`
	Announcement *string `json:"announcement" binding:"omitempty,max=255"`
}

// StatsHandler returns the dashboard counters
func StatsHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if fromCache(c, rdb, keyAdminStats) {
			return
		}
		stats, err := svc.Stats(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to compute stats")
			return
		}
		respondCached(c, rdb, keyAdminStats, gin.H{"stats": stats}, utils.ShortTTL)
	}
}

// ListUsersHandler returns one page of users with their balances and flags
func ListUsersHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := parsePagination(c)
		// Create a cache key based on pagination parameters
		cacheKey := keyAdminUsers + "page=" + strconv.Itoa(page.Number) + ":size=" + strconv.Itoa(page.Size)
		if fromCache(c, rdb, cacheKey) {
			return
		}
		users, total, err := svc.ListUsers(c.Request.Context(), page)
		if err != nil {
			respondError(c, err, "Failed to fetch users")
			return
		}
		respondCached(c, rdb, cacheKey, gin.H{
			"users":       users,                        // Users with credits and flags
			"page":        page.Number,                  // Current page
			"page_size":   page.Size,                    // Page size
			"total":       total,                        // Total number of users
			"total_pages": totalPages(total, page.Size), // Total pages
		}, utils.ShortTTL)
	}
}

// userAction runs an admin operation on the user named by the :id parameter
func userAction(rdb *redis.Client, action func(c *gin.Context, adminID, userID uint) (*domain.User, error), msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := currentUser(c)
		if !ok {
			return
		}
		userID, ok := paramID(c, "id")
		if !ok {
			return
		}
		user, err := action(c, adminID, userID)
		if err != nil {
			respondError(c, err, msg+" failed")
			return
		}
		invalidate(c, rdb, keyAdminUsers)
		c.JSON(http.StatusOK, gin.H{"message": msg, "user": user})
	}
}

// ToggleBlockHandler blocks or unblocks a user
func ToggleBlockHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return userAction(rdb, func(c *gin.Context, adminID, userID uint) (*domain.User, error) {
		return svc.ToggleBlock(c.Request.Context(), adminID, userID)
	}, "Block status toggled")
}

// VerifyHandler marks a user as verified
func VerifyHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return userAction(rdb, func(c *gin.Context, adminID, userID uint) (*domain.User, error) {
		return svc.Verify(c.Request.Context(), adminID, userID)
	}, "User verified")
}

// GrantCreditsHandler adjusts a user's balance by a signed amount
func GrantCreditsHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := currentUser(c)
		if !ok {
			return
		}
		userID, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req GrantCreditsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be a non-zero integer"})
			return
		}
		balance, entry, err := svc.GrantCredits(c.Request.Context(), adminID, userID, req.Amount)
		if err != nil {
			respondError(c, err, "Credit adjustment failed")
			return
		}
		invalidate(c, rdb, userTxKey(userID), keyAdminTxs, keyAdminUsers, keyAdminStats)
		c.JSON(http.StatusOK, gin.H{
			"message":     "Credits adjusted",
			"credits":     balance, // New balance of the user
			"transaction": entry,   // Ledger row
		})
	}
}

// ListRequestsHandler returns every request, newest first
func ListRequestsHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqs, err := svc.ListAllRequests(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to fetch requests")
			return
		}
		c.JSON(http.StatusOK, gin.H{"requests": toRequestResponses(reqs)})
	}
}

// DeleteRequestHandler removes a request and its bids
func DeleteRequestHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := svc.DeleteRequest(c.Request.Context(), adminID, id); err != nil {
			respondError(c, err, "Failed to delete request")
			return
		}
		invalidate(c, rdb, keyAdminStats)
		c.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
	}
}

// ListCategoriesHandler returns every category, flat
func ListCategoriesHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := svc.ListCategories(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to fetch categories")
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": cats})
	}
}

// AddCategoryHandler creates a top-level or child category
func AddCategoryHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddCategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		cat, err := svc.AddCategory(c.Request.Context(), service.CategoryInput{
			Name:     req.Name,
			ParentID: req.ParentID,
			Schema:   req.Schema,
		})
		if err != nil {
			respondError(c, err, "Failed to add category") // 409 on duplicate, 404 on unknown parent
			return
		}
		invalidate(c, rdb, keyCategories)
		c.JSON(http.StatusCreated, gin.H{"message": "Category added", "category": cat})
	}
}

// AddTickerHandler creates a ticker
func AddTickerHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddTickerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		ticker, err := svc.AddTicker(c.Request.Context(), req.Name, req.Value, req.ChangeRate)
		if err != nil {
			respondError(c, err, "Failed to add ticker")
			return
		}
		invalidate(c, rdb, keyTickers)
		c.JSON(http.StatusCreated, gin.H{"message": "Ticker added", "ticker": ticker})
	}
}

// DeleteTickerHandler removes a ticker
func DeleteTickerHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := svc.DeleteTicker(c.Request.Context(), id); err != nil {
			respondError(c, err, "Failed to delete ticker")
			return
		}
		invalidate(c, rdb, keyTickers)
		c.JSON(http.StatusOK, gin.H{"message": "Ticker deleted"})
	}
}

// UpdateSettingsHandler persists new site settings and refreshes the in-memory copy
func UpdateSettingsHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		settings, err := svc.UpdateSettings(c.Request.Context(), service.SettingsInput{
			LogoURL:      req.LogoURL,
			ContactInfo:  req.ContactInfo,
			SEOTitle:     req.SEOTitle,
			Announcement: req.Announcement,
		})
		if err != nil {
			respondError(c, err, "Failed to update settings")
			return
		}
		adminID, _ := middleware.CurrentUserID(c)
		middleware.Logger(c).WithField("admin_id", adminID).Info("Site settings updated")
		c.JSON(http.StatusOK, gin.H{"message": "Settings updated", "settings": settings})
	}
}

// parseDate accepts a date or an RFC 3339 timestamp
func parseDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// ListTransactionsHandler returns the ledger, with optional filtering by user, kind, or date
func ListTransactionsHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := parsePagination(c)
		var keyParts []string // Parts of the cache key
		for _, k := range []string{"user_id", "kind", "from", "to"} {
			keyParts = append(keyParts, k+"="+c.Query(k))
		}
		keyParts = append(keyParts, "page="+strconv.Itoa(page.Number), "size="+strconv.Itoa(page.Size))
		cacheKey := keyAdminTxs + strings.Join(keyParts, ":")
		if fromCache(c, rdb, cacheKey) {
			return
		}
		var filter service.TxFilter
		if v := c.Query("user_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
				return
			}
			filter.UserID = uint(id)
		}
		filter.Kind = c.Query("kind")
		from, okFrom := parseDate(c.Query("from"))
		to, okTo := parseDate(c.Query("to"))
		if !okFrom || !okTo {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be YYYY-MM-DD or RFC 3339"})
			return
		}
		filter.From, filter.To = from, to
		txs, total, err := svc.ListTransactions(c.Request.Context(), filter, page)
		if err != nil {
			respondError(c, err, "Failed to fetch transactions")
			return
		}
		respondCached(c, rdb, cacheKey, gin.H{
			"transactions": txs,                          // Ledger rows
			"page":         page.Number,                  // Current page
			"page_size":    page.Size,                    // Page size
			"total":        total,                        // Total rows
			"total_pages":  totalPages(total, page.Size), // Total pages
		}, utils.ShortTTL)
	}
}
