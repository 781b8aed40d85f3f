package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PurchaseCredits grants a fixed credit package and records it in the ledger.
// There is no payment gateway, the purchase is granted unconditionally.
func (s *Service) PurchaseCredits(ctx context.Context, userID uint, code string) (int, *domain.CreditTransaction, error) {
	pkg, ok := domain.LookupPackage(code)
	if !ok {
		return 0, nil, ErrUnknownPackage
	}
	entry := &domain.CreditTransaction{
		UserID:      userID,
		Amount:      pkg.Credits,
		Kind:        domain.TxPurchase,
		Description: fmt.Sprintf("Bought %s credits package", pkg.Code),
	}
	balance, err := s.applyCredit(ctx, entry)
	if err != nil {
		return 0, nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"package": pkg.Code,
		"credits": pkg.Credits,
		"price":   pkg.Price.String(),
		"balance": balance,
	}).Info("Credits purchased")
	return balance, entry, nil
}

// GrantCredits adjusts a balance by any non-zero amount on behalf of an admin.
// Negative amounts are allowed and may take the balance below zero.
func (s *Service) GrantCredits(ctx context.Context, adminID, userID uint, amount int) (int, *domain.CreditTransaction, error) {
	if amount == 0 {
		return 0, nil, ErrInvalidAmount
	}
	if _, err := s.requireAdmin(s.db.WithContext(ctx), adminID); err != nil {
		return 0, nil, err
	}
	entry := &domain.CreditTransaction{
		UserID:      userID,
		AdminID:     &adminID,
		Amount:      amount,
		Kind:        domain.TxAdminAdjustment,
		Description: "Admin Manual Adjustment",
	}
	balance, err := s.applyCredit(ctx, entry)
	if err != nil {
		return 0, nil, err
	}
	logrus.WithFields(logrus.Fields{
		"admin_id": adminID,
		"user_id":  userID,
		"amount":   amount,
		"balance":  balance,
	}).Info("Credits granted")
	return balance, entry, nil
}

// applyCredit adds entry.Amount to the balance and inserts entry, atomically.
func (s *Service) applyCredit(ctx context.Context, entry *domain.CreditTransaction) (int, error) {
	var balance int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.User{}).Where("id = ?", entry.UserID).
			Update("credits", gorm.Expr("credits + ?", entry.Amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		var err error
		balance, err = creditsOf(tx, entry.UserID)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, err
		}
		logrus.WithFields(logrus.Fields{
			"user_id": entry.UserID,
			"amount":  entry.Amount,
			"kind":    entry.Kind,
			"error":   err.Error(),
		}).Error("Credit change failed")
		return 0, fmt.Errorf("apply credit: %w", err)
	}
	return balance, nil
}

// debitForRequest takes one credit in a single conditional update, so two
// concurrent calls cannot both spend the last credit. Must run inside tx.
func debitForRequest(tx *gorm.DB, userID uint) (int, error) {
	res := tx.Model(&domain.User{}).Where("id = ? AND credits >= ?", userID, 1).
		Update("credits", gorm.Expr("credits - ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := getUser(tx, userID); err != nil {
			return 0, err
		}
		return 0, ErrInsufficientCredit
	}
	return creditsOf(tx, userID)
}

func creditsOf(db *gorm.DB, userID uint) (int, error) {
	var user domain.User
	if err := db.Select("id", "credits").First(&user, userID).Error; err != nil {
		return 0, notFound(err)
	}
	return user.Credits, nil
}

// TxFilter narrows the ledger listing. Zero values match everything.
type TxFilter struct {
	UserID uint
	Kind   string
	From   *time.Time
	To     *time.Time
}

// ListTransactions returns one page of ledger rows, newest first, and the total count.
func (s *Service) ListTransactions(ctx context.Context, f TxFilter, page Page) ([]domain.CreditTransaction, int64, error) {
	query := s.db.WithContext(ctx).Model(&domain.CreditTransaction{})
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Kind != "" {
		query = query.Where("kind = ?", f.Kind)
	}
	if f.From != nil {
		query = query.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("created_at <= ?", *f.To)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}
	var txs []domain.CreditTransaction
	if err := page.scope(query).Order("created_at desc, id desc").Find(&txs).Error; err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return txs, total, nil
}

// ListUserTransactions returns one page of a user's own ledger, newest first.
func (s *Service) ListUserTransactions(ctx context.Context, userID uint, page Page) ([]domain.CreditTransaction, int64, error) {
	if userID == 0 {
		return nil, 0, ErrNotFound
	}
	return s.ListTransactions(ctx, TxFilter{UserID: userID}, page)
}

// Stats is the admin dashboard summary.
type Stats struct {
	Users    int64 `json:"user_count"`
	Requests int64 `json:"request_count"`
	Volume   int64 `json:"volume"` // Sum of positive ledger amounts
}

// Stats counts users and requests and sums the credits ever added.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	db := s.db.WithContext(ctx)
	var st Stats
	if err := db.Model(&domain.User{}).Count(&st.Users).Error; err != nil {
		return st, fmt.Errorf("count users: %w", err)
	}
	if err := db.Model(&domain.Request{}).Count(&st.Requests).Error; err != nil {
		return st, fmt.Errorf("count requests: %w", err)
	}
	err := db.Model(&domain.CreditTransaction{}).Where("amount > ?", 0).
		Select("COALESCE(SUM(amount), 0)").Scan(&st.Volume).Error
	if err != nil {
		return st, fmt.Errorf("sum volume: %w", err)
	}
	return st, nil
}
