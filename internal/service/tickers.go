package service

import (
	"context"
	"fmt"
	"strings"

	"marketplace/internal/domain"

	"github.com/sirupsen/logrus"
)

// ListTickers returns all tickers in insertion order.
func (s *Service) ListTickers(ctx context.Context) ([]domain.Ticker, error) {
	var tickers []domain.Ticker
	if err := s.db.WithContext(ctx).Order("id").Find(&tickers).Error; err != nil {
		return nil, fmt.Errorf("list tickers: %w", err)
	}
	return tickers, nil
}

// AddTicker stores a new ticker.
func (s *Service) AddTicker(ctx context.Context, name, value, change string) (*domain.Ticker, error) {
	t := &domain.Ticker{
		Name:       strings.TrimSpace(name),
		Value:      strings.TrimSpace(value),
		ChangeRate: strings.TrimSpace(change),
	}
	if t.Name == "" || t.Value == "" {
		return nil, ErrInvalidInput
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, fmt.Errorf("add ticker: %w", err)
	}
	logrus.WithFields(logrus.Fields{"ticker_id": t.ID, "name": t.Name}).Info("Ticker added")
	return t, nil
}

// DeleteTicker removes a ticker.
func (s *Service) DeleteTicker(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Ticker{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete ticker: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
