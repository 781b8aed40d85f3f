package db

import (
	"context"
	"fmt"

	"marketplace/internal/config" // Application configuration
	"marketplace/internal/domain" // Importing domain models

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/driver/sqlite"   // SQLite driver for local runs and tests
	"gorm.io/gorm"            // GORM ORM library
)

// Open connects to the configured database
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}
	// TranslateError turns unique violations into gorm.ErrDuplicatedKey
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logrus.WithField("driver", cfg.DBDriver).Info("Connected to database")
	return db, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Request{},
		&domain.Bid{},
		&domain.CreditTransaction{},
		&domain.SiteSetting{},
		&domain.Ticker{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// OpenRedis connects to Redis, or returns nil when no address is configured
func OpenRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		logrus.Warn("REDIS_ADDR not set, caching disabled")
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}
