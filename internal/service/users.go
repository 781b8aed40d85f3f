package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/domain"
	"marketplace/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RegisterInput is the already validated registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	IsSeller bool
	TaxID    string
}

// Register creates a buyer account (optionally also a seller) with zero credits.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	return s.createUser(ctx, in, false)
}

// createUser inserts the account in a single statement, admin flag included.
func (s *Service) createUser(ctx context.Context, in RegisterInput, isAdmin bool) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username)) // Lowercase to keep uniqueness case-insensitive
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}
	db := s.db.WithContext(ctx)
	if err := checkUnique(db, username, email); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsSeller:     in.IsSeller,
		IsBuyer:      true,
		IsAdmin:      isAdmin,
		TaxID:        strings.TrimSpace(in.TaxID),
	}
	if err := db.Create(user).Error; err != nil {
		// Lost a race with a concurrent registration, find out which column collided
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if uerr := checkUnique(db, username, email); uerr != nil {
				return nil, uerr
			}
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"username":  user.Username,
		"is_seller": user.IsSeller,
		"is_admin":  user.IsAdmin,
	}).Info("User registered")
	return user, nil
}

func checkUnique(db *gorm.DB, username, email string) error {
	var n int64
	if err := db.Model(&domain.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if n > 0 {
		return ErrDuplicateUsername
	}
	if err := db.Model(&domain.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return ErrDuplicateEmail
	}
	return nil
}

// Authenticate verifies the password against the stored hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("username = ?", strings.ToLower(strings.TrimSpace(username))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredential
	} else if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredential
	}
	if !s.opts.Policy.CanLogin(&user) {
		return nil, ErrBlocked
	}
	return &user, nil
}

// GetUser loads a user by id.
func (s *Service) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return getUser(s.db.WithContext(ctx), id)
}

func getUser(db *gorm.DB, id uint) (*domain.User, error) {
	var user domain.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// requireAdmin loads the acting user and checks the admin policy.
func (s *Service) requireAdmin(db *gorm.DB, adminID uint) (*domain.User, error) {
	admin, err := getUser(db, adminID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotAdmin
	} else if err != nil {
		return nil, err
	}
	if !s.opts.Policy.CanAdminister(admin) {
		return nil, ErrNotAdmin
	}
	return admin, nil
}

// ListUsers returns one page of users ordered by id, and the total count.
func (s *Service) ListUsers(ctx context.Context, page Page) ([]domain.User, int64, error) {
	db := s.db.WithContext(ctx)
	var total int64
	if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []domain.User
	if err := page.scope(db).Order("id").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// ToggleBlock flips the blocked flag of a user.
func (s *Service) ToggleBlock(ctx context.Context, adminID, userID uint) (*domain.User, error) {
	var user *domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.requireAdmin(tx, adminID); err != nil {
			return err
		}
		res := tx.Model(&domain.User{}).Where("id = ?", userID).Update("is_blocked", gorm.Expr("NOT is_blocked"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		var err error
		user, err = getUser(tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"admin_id":   adminID,
		"user_id":    user.ID,
		"is_blocked": user.IsBlocked,
	}).Info("User block toggled")
	return user, nil
}

// Verify marks a user as verified. Verifying twice is a no-op.
func (s *Service) Verify(ctx context.Context, adminID, userID uint) (*domain.User, error) {
	var user *domain.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.requireAdmin(tx, adminID); err != nil {
			return err
		}
		var err error
		if user, err = getUser(tx, userID); err != nil {
			return err
		}
		if user.IsVerified {
			return nil
		}
		user.IsVerified = true
		return tx.Model(user).Update("is_verified", true).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"admin_id": adminID, "user_id": userID}).Info("User verified")
	return user, nil
}

// EnsureAdmin creates an admin (who is also a seller) unless the username exists.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	db := s.db.WithContext(ctx)
	var n int64
	if err := db.Model(&domain.User{}).Where("username = ?", strings.ToLower(username)).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	in := RegisterInput{Username: username, Email: email, Password: password, IsSeller: true}
	if _, err := s.createUser(ctx, in, true); err != nil {
		return false, err
	}
	return true, nil
}
