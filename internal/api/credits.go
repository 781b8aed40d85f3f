package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"marketplace/internal/domain"  // Domain models
	"marketplace/internal/service" // Domain operations
	"marketplace/internal/utils"   // Cache TTLs

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// PurchaseRequest selects a credit package
type PurchaseRequest struct {
	Package string `json:"package" binding:"required,oneof=10 20 50"` // Package code
}

// PackageResponse describes a purchasable package
type PackageResponse struct {
	domain.CreditPackage
	Label string `json:"label"` // e.g. "20 Credits ($170)"
}

// ListPackagesHandler returns the fixed credit packages
func ListPackagesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		pkgs := domain.CreditPackages()
		resp := make([]PackageResponse, len(pkgs))
		for i, p := range pkgs {
			resp[i] = PackageResponse{CreditPackage: p, Label: p.Label()}
		}
		c.JSON(http.StatusOK, gin.H{"packages": resp})
	}
}

// PurchaseHandler adds a package's credits to the caller's balance
func PurchaseHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		var req PurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid package"})
			return
		}
		balance, entry, err := svc.PurchaseCredits(c.Request.Context(), userID, req.Package)
		if err != nil {
			respondError(c, err, "Purchase failed")
			return
		}
		// Balance and ledger listings changed
		invalidate(c, rdb, userTxKey(userID), keyAdminTxs, keyAdminUsers, keyAdminStats)
		c.JSON(http.StatusOK, gin.H{
			"message":     "Credits added",
			"credits":     balance, // New balance
			"transaction": entry,   // Ledger row
		})
	}
}

// TransactionHistoryHandler returns the caller's own ledger, newest first
func TransactionHistoryHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		page := parsePagination(c)
		cacheKey := userTxKey(userID) + "page:" + strconv.Itoa(page.Number) + ":size:" + strconv.Itoa(page.Size)
		if fromCache(c, rdb, cacheKey) {
			return
		}
		txs, total, err := svc.ListUserTransactions(c.Request.Context(), userID, page)
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
