package main

import (
	"context" // Context for seeding
	"flag"    // Command line flags

	"marketplace/internal/config"  // Custom import path (Config)
	"marketplace/internal/db"      // Custom import path (Database)
	"marketplace/internal/domain"  // Access policy
	"marketplace/internal/service" // Seeding operations

	"github.com/sirupsen/logrus" // Structured logging
)

// Main entry point for migration and seeding
func main() {
	seed := flag.Bool("seed", true, "seed the default categories into an empty tree")
	withAdmin := flag.Bool("admin", true, "create the bootstrap admin when ADMIN_PASSWORD is set")
	flag.Parse()

	cfg := config.LoadConfig() // Load configuration
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("%v", err)
	}
	logrus.Info("Database migration completed successfully")

	ctx := context.Background()
	svc := service.New(conn, service.Options{Policy: domain.Policy{EnforceBlock: cfg.EnforceBlock}})

	if *seed {
		n, err := svc.SeedCategories(ctx, service.DefaultCategories)
		if err != nil {
			logrus.Fatalf("failed to seed categories: %v", err)
		}
		logrus.WithField("created", n).Info("Categories seeded")
	}

	if *withAdmin {
		if cfg.AdminPassword == "" {
			logrus.Warn("ADMIN_PASSWORD not set, skipping admin bootstrap")
			return
		}
		created, err := svc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			logrus.Fatalf("failed to create admin: %v", err)
		}
		logrus.WithFields(logrus.Fields{"username": cfg.AdminUsername, "created": created}).Info("Admin account ready")
	}
}
