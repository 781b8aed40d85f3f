package api

import (
	"net/http" // HTTP status codes

	"marketplace/internal/service" // Domain operations
	"marketplace/internal/utils"   // Cache TTLs

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// CategoriesHandler returns the top-level categories with their children
func CategoriesHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if fromCache(c, rdb, keyCategories) {
			return
		}
		tree, err := svc.Tree(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to load categories")
			return
		}
		respondCached(c, rdb, keyCategories, gin.H{"categories": tree}, utils.LongTTL)
	}
}

// TickersHandler returns the tickers shown site-wide
func TickersHandler(svc *service.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if fromCache(c, rdb, keyTickers) {
			return
		}
		tickers, err := svc.ListTickers(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to load tickers")
			return
		}
		respondCached(c, rdb, keyTickers, gin.H{"tickers": tickers}, utils.LongTTL)
	}
}

// SettingsHandler returns the site settings held in memory
func SettingsHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"settings": svc.Settings()})
	}
}
