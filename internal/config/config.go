package config

import (
	"fmt"     // For DSN formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion

	"github.com/joho/godotenv" // For loading .env files
	"github.com/sirupsen/logrus"
)

// Config holds the application configuration
type Config struct {
	AppPort    string // Application port
	DBDriver   string // mysql, postgres or sqlite
	DBUser     string // Database user
	DBPassword string // Database password
	DBHost     string // Database host
	DBPort     string // Database port
	DBName     string // Database name (file path for sqlite)
	JWTSecret  string // JWT secret key
	RedisAddr  string // Redis server address, empty disables caching
	RedisPass  string // Redis password
	RedisDB    int    // Redis database number
	IsProd     bool   // Is production environment

	LedgerRequestDebits bool // Write a ledger row for every request-creation debit
	EnforceBlock        bool // Blocked users cannot log in or administer

	Site SiteDefaults // Defaults for the site settings row

	AdminUsername string // Bootstrap admin account
	AdminEmail    string
	AdminPassword string
}

// SiteDefaults seed the settings row on first start
type SiteDefaults struct {
	LogoURL      string
	ContactInfo  string
	SEOTitle     string
	Announcement string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using system environment variables")
	}
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	return &Config{
		AppPort:    getEnv("APP_PORT", "8080"),       // Application port
		DBDriver:   getEnv("DB_DRIVER", "mysql"),     // Database driver
		DBUser:     os.Getenv("DB_USER"),             // Database user
		DBPassword: os.Getenv("DB_PASSWORD"),         // Database password
		DBHost:     getEnv("DB_HOST", "localhost"),   // Database host
		DBPort:     os.Getenv("DB_PORT"),             // Database port
		DBName:     getEnv("DB_NAME", "marketplace"), // Database name
		JWTSecret:  os.Getenv("JWT_SECRET"),          // JWT secret key
		RedisAddr:  os.Getenv("REDIS_ADDR"),          // Redis server address
		RedisPass:  os.Getenv("REDIS_PASS"),          // Redis password
		RedisDB:    redisDB,                          // Redis database number
		IsProd:     os.Getenv("IS_PROD") == "true",   // Is production environment

		LedgerRequestDebits: getEnv("LEDGER_REQUEST_DEBITS", "true") == "true",
		EnforceBlock:        os.Getenv("ENFORCE_BLOCK") == "true",

		Site: SiteDefaults{
			LogoURL:      os.Getenv("SITE_LOGO_URL"),
			ContactInfo:  os.Getenv("SITE_CONTACT_INFO"),
			SEOTitle:     getEnv("SITE_SEO_TITLE", "B2B Marketplace"),
			Announcement: os.Getenv("SITE_ANNOUNCEMENT"),
		},

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() (string, error) {
	switch c.DBDriver {
	case "mysql":
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true", nil
	case "postgres":
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, port), nil
	case "sqlite":
		return c.DBName, nil
	}
	return "", fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
