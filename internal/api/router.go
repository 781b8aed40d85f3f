package api

import (
	"net/http" // HTTP status codes

	"marketplace/internal/middleware" // Auth and request id middleware
	"marketplace/internal/service"    // Domain operations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client, nil disables caching
)

// NewRouter registers every route on a fresh gin engine
func NewRouter(svc *service.Service, rdb *redis.Client, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	// Public routes
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.POST("/user", RegisterHandler(svc, rdb))        // Registration endpoint
	r.POST("/login", LoginHandler(svc, jwtSecret))    // Login endpoint
	r.GET("/categories", CategoriesHandler(svc, rdb)) // Category tree
	r.GET("/tickers", TickersHandler(svc, rdb))       // Site-wide tickers
	r.GET("/settings", SettingsHandler(svc))          // Site settings
	r.GET("/credits/packages", ListPackagesHandler()) // Purchasable packages

	// User routes (protected by JWT)
	auth := r.Group("")
	auth.Use(middleware.JWTAuthMiddleware(jwtSecret))
	auth.GET("/me", MeHandler(svc))                                        // Profile and balance
	auth.GET("/dashboard", DashboardHandler(svc))                          // Own requests and bids
	auth.POST("/credits/purchase", PurchaseHandler(svc, rdb))              // Buy a credit package
	auth.GET("/credits/transactions", TransactionHistoryHandler(svc, rdb)) // Own ledger
	auth.POST("/requests", CreateRequestHandler(svc, rdb))                 // Post a request, costs one credit
	auth.GET("/marketplace", MarketplaceHandler(svc))                      // Other users' requests
	auth.GET("/requests/:id", GetRequestHandler(svc))                      // Request detail with bids
	auth.POST("/requests/:id/bids", SubmitBidHandler(svc))                 // Sellers only

	// Admin routes (protected, admin only)
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(jwtSecret), middleware.AdminOnlyMiddleware(svc))
	admin.GET("/stats", StatsHandler(svc, rdb))
	admin.GET("/users", ListUsersHandler(svc, rdb))
	admin.POST("/users/:id/toggle_block", ToggleBlockHandler(svc, rdb))
	admin.POST("/users/:id/verify", VerifyHandler(svc, rdb))
	admin.POST("/users/:id/credits", GrantCreditsHandler(svc, rdb))
	admin.GET("/requests", ListRequestsHandler(svc))
	admin.DELETE("/requests/:id", DeleteRequestHandler(svc, rdb))
	admin.GET("/categories", ListCategoriesHandler(svc))
	admin.POST("/categories", AddCategoryHandler(svc, rdb))
	admin.GET("/tickers", TickersHandler(svc, rdb))
	admin.POST("/tickers", AddTickerHandler(svc, rdb))
	admin.DELETE("/tickers/:id", DeleteTickerHandler(svc, rdb))
	admin.GET("/settings", SettingsHandler(svc))
	admin.PUT("/settings", UpdateSettingsHandler(svc))
	admin.GET("/transactions", ListTransactionsHandler(svc, rdb))

	return r
}
