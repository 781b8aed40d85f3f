package main

import (
	"context" // Context for startup I/O

	"marketplace/internal/api"     // HTTP handlers and routes
	"marketplace/internal/config"  // Configuration
	"marketplace/internal/db"      // Database and Redis connections
	"marketplace/internal/domain"  // Access policy and settings
	"marketplace/internal/service" // Domain operations

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("failed to migrate: %v", err)
	}

	ctx := context.Background()
	rdb, err := db.OpenRedis(ctx, cfg) // nil when REDIS_ADDR is empty
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	svc := service.New(conn, service.Options{
		Policy:              domain.Policy{EnforceBlock: cfg.EnforceBlock},
		LedgerRequestDebits: cfg.LedgerRequestDebits,
	})
	// Settings are read once here and served from memory afterwards
	err = svc.LoadSettings(ctx, domain.SiteSetting{
		LogoURL:      cfg.Site.LogoURL,
		ContactInfo:  cfg.Site.ContactInfo,
		SEOTitle:     cfg.Site.SEOTitle,
		Announcement: cfg.Site.Announcement,
	})
	if err != nil {
		logrus.Fatalf("failed to load site settings: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(svc, rdb, cfg.JWTSecret)
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"port":                  cfg.AppPort,
		"enforce_block":         cfg.EnforceBlock,
		"ledger_request_debits": cfg.LedgerRequestDebits,
		"cache":                 rdb != nil,
	}).Info("Server starting")
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
