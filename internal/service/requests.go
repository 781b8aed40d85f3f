package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RequestInput holds the descriptive fields of a new sourcing request.
type RequestInput struct {
	Category      string
	SubCategory   string
	ProductType   string
	Spec          string
	Origin        string
	Application   string
	Quantity      string
	ProductStatus string
	CustomsStatus string
	Packaging     string
	Deadline      *time.Time
	Details       string
}

// CreateRequest spends one credit and stores the request in the same transaction.
// Either both happen or neither does.
func (s *Service) CreateRequest(ctx context.Context, buyerID uint, in RequestInput) (*domain.Request, error) {
	db := s.db.WithContext(ctx)
	if in.Category != "" {
		var n int64
		if err := db.Model(&domain.Category{}).Where("name = ? AND parent_id IS NULL", in.Category).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("check category: %w", err)
		}
		if n == 0 {
			return nil, ErrUnknownCategory
		}
	}
	req := &domain.Request{
		UserID:        buyerID,
		Category:      in.Category,
		SubCategory:   strings.TrimSpace(in.SubCategory),
		ProductType:   strings.TrimSpace(in.ProductType),
		Spec:          in.Spec,
		Origin:        in.Origin,
		Application:   in.Application,
		Quantity:      strings.TrimSpace(in.Quantity),
		ProductStatus: in.ProductStatus,
		CustomsStatus: in.CustomsStatus,
		Packaging:     in.Packaging,
		Deadline:      in.Deadline,
		Status:        domain.StatusOpen,
		Details:       in.Details,
	}
	var balance int
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if balance, err = debitForRequest(tx, buyerID); err != nil {
			return err
		}
		if err := tx.Create(req).Error; err != nil {
			return err
		}
		if !s.opts.LedgerRequestDebits {
			return nil
		}
		return tx.Create(&domain.CreditTransaction{
			UserID:      buyerID,
			Amount:      -1,
			Kind:        domain.TxRequestDebit,
			Description: fmt.Sprintf("Request #%d created", req.ID),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":    buyerID,
		"request_id": req.ID,
		"category":   req.Category,
		"balance":    balance,
	}).Info("Request created")
	return req, nil
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at desc").Order("id desc")
}

// ListMarketplace returns every request except the caller's own, newest first.
func (s *Service) ListMarketplace(ctx context.Context, excludingUserID uint) ([]domain.Request, error) {
	var reqs []domain.Request
	err := newestFirst(s.db.WithContext(ctx)).Preload("Author").
		Where("user_id <> ?", excludingUserID).Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("list marketplace: %w", err)
	}
	return reqs, nil
}

// ListAllRequests returns every request, newest first.
func (s *Service) ListAllRequests(ctx context.Context) ([]domain.Request, error) {
	var reqs []domain.Request
	if err := newestFirst(s.db.WithContext(ctx)).Preload("Author").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return reqs, nil
}

// GetRequest loads a request with its author and bids (newest first).
func (s *Service) GetRequest(ctx context.Context, id uint) (*domain.Request, error) {
	var req domain.Request
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Bids", newestFirst).
		Preload("Bids.Seller").
		First(&req, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &req, nil
}

// BidInput is a seller's offer.
type BidInput struct {
	Price   domain.Price
	Details string
}

// SubmitBid records an offer. Any existing request may be bid on whatever its
// status, and a seller may bid on the same request more than once.
func (s *Service) SubmitBid(ctx context.Context, sellerID, requestID uint, in BidInput) (*domain.Bid, error) {
	if err := in.Price.Validate(); err != nil {
		return nil, err
	}
	bid := &domain.Bid{
		RequestID: requestID,
		SellerID:  sellerID,
		Price:     in.Price,
		Details:   in.Details,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req domain.Request
		if err := tx.Select("id").First(&req, requestID).Error; err != nil {
			return notFound(err)
		}
		seller, err := getUser(tx, sellerID)
		if err != nil {
			return err
		}
		if !s.opts.Policy.CanBid(seller) {
			return ErrNotASeller
		}
		return tx.Create(bid).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"seller_id":  sellerID,
		"request_id": requestID,
		"bid_id":     bid.ID,
		"price":      bid.Price.String(),
	}).Info("Bid submitted")
	return bid, nil
}

// ListOwn returns the user's requests and bids, both newest first.
func (s *Service) ListOwn(ctx context.Context, userID uint) ([]domain.Request, []domain.Bid, error) {
	db := s.db.WithContext(ctx)
	var reqs []domain.Request
	if err := newestFirst(db).Where("user_id = ?", userID).Find(&reqs).Error; err != nil {
		return nil, nil, fmt.Errorf("list own requests: %w", err)
	}
	var bids []domain.Bid
	if err := newestFirst(db).Preload("Request").Where("seller_id = ?", userID).Find(&bids).Error; err != nil {
		return nil, nil, fmt.Errorf("list own bids: %w", err)
	}
	return reqs, bids, nil
}

// DeleteRequest removes a request and its bids. The spent credit is not refunded.
func (s *Service) DeleteRequest(ctx context.Context, adminID, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.requireAdmin(tx, adminID); err != nil {
			return err
		}
		if err := tx.Where("request_id = ?", id).Delete(&domain.Bid{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Request{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"admin_id": adminID, "request_id": id}).Info("Request deleted")
	return nil
}
