// Package service implements the marketplace operations on top of gorm:
// accounts and the credit ledger, the category tree, requests and bids,
// site settings and tickers. Every state change runs in one DB transaction.
package service

import (
	"errors"
	"sync"

	"marketplace/internal/domain"

	"gorm.io/gorm"
)

// Options tune the policy decisions left to deployment.
type Options struct {
	Policy              domain.Policy
	LedgerRequestDebits bool
}

// Service is the entry point for every domain operation.
type Service struct {
	db     *gorm.DB
	opts   Options
	mu     sync.RWMutex
	site   domain.SiteSetting
	loaded bool
}

// New returns a Service backed by db.
func New(db *gorm.DB, opts Options) *Service {
	return &Service{db: db, opts: opts}
}

// Policy returns the access policy in force.
func (s *Service) Policy() domain.Policy {
	return s.opts.Policy
}

// Page selects a slice of an ordered listing.
type Page struct {
	Number int
	Size   int
}

func (p Page) normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 || p.Size > 100 {
		p.Size = 20
	}
	return p
}

func (p Page) scope(db *gorm.DB) *gorm.DB {
	p = p.normalize()
	return db.Offset((p.Number - 1) * p.Size).Limit(p.Size)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
