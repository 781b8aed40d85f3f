package service

import (
	"context"
	"testing"

	store "marketplace/internal/db"
	"marketplace/internal/domain"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, store.Migrate(db))
	return db
}

func newTestService(t *testing.T, opts Options) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return New(db, opts), db
}

func defaultOptions() Options {
	return Options{LedgerRequestDebits: true}
}

func mustRegister(t *testing.T, svc *Service, username string, seller bool) *domain.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "password123",
		IsSeller: seller,
	})
	require.NoError(t, err)
	return u
}

func mustAdmin(t *testing.T, svc *Service) *domain.User {
	t.Helper()
	ctx := context.Background()
	created, err := svc.EnsureAdmin(ctx, "admin", "admin@example.com", "admin-password")
	require.NoError(t, err)
	require.True(t, created)
	u, err := svc.Authenticate(ctx, "admin", "admin-password")
	require.NoError(t, err)
	require.True(t, u.IsAdmin)
	return u
}

func balanceOf(t *testing.T, svc *Service, id uint) int {
	t.Helper()
	u, err := svc.GetUser(context.Background(), id)
	require.NoError(t, err)
	return u.Credits
}

func ledgerSum(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()
	var sum int
	require.NoError(t, db.Model(&domain.CreditTransaction{}).Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error)
	return sum
}
