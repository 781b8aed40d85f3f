package service

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/domain"

	"gorm.io/gorm"
)

// LoadSettings reads the settings row, creating it from defaults when absent,
// and keeps it in memory. Call once at startup.
func (s *Service) LoadSettings(ctx context.Context, defaults domain.SiteSetting) error {
	var row domain.SiteSetting
	db := s.db.WithContext(ctx)
	err := db.Order("id").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = defaults
		row.ID = 0
		err = db.Create(&row).Error
	}
	if err != nil {
		return fmt.Errorf("load site settings: %w", err)
	}
	s.mu.Lock()
	s.site, s.loaded = row, true
	s.mu.Unlock()
	return nil
}

// Settings returns the in-memory site settings.
func (s *Service) Settings() domain.SiteSetting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

// SettingsInput changes the non-nil fields.
type SettingsInput struct {
	LogoURL      *string
	ContactInfo  *string
	SEOTitle     *string
	Announcement *string
}

// UpdateSettings persists the changes and refreshes the in-memory copy.
func (s *Service) UpdateSettings(ctx context.Context, in SettingsInput) (domain.SiteSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return domain.SiteSetting{}, errors.New("site settings not loaded")
	}
	next := s.site
	if in.LogoURL != nil {
		next.LogoURL = *in.LogoURL
	}
	if in.ContactInfo != nil {
		next.ContactInfo = *in.ContactInfo
	}
	if in.SEOTitle != nil {
		next.SEOTitle = *in.SEOTitle
	}
	if in.Announcement != nil {
		next.Announcement = *in.Announcement
	}
	if err := s.db.WithContext(ctx).Save(&next).Error; err != nil {
		return s.site, fmt.Errorf("update site settings: %w", err)
	}
	s.site = next
	return next, nil
}
