package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/domain"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultCategories are the top-level categories seeded into an empty tree.
var DefaultCategories = []string{
	"Polymers", "Chemicals", "Technical", "Scrap",
	"Packaging", "Machines", "Services", "Logistics",
}

// CategoryInput describes a new node. A nil ParentID makes it top-level.
type CategoryInput struct {
	Name     string
	ParentID *uint
	Schema   string
}

// AddCategory appends a category to the tree. The parent, when given, must be an
// existing top-level category, so the tree stays two levels deep and acyclic.
func (s *Service) AddCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	cat := &domain.Category{
		Name:     name,
		Slug:     slug.Make(name),
		ParentID: in.ParentID,
		Schema:   in.Schema,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Category{}).Where("name = ? OR slug = ?", cat.Name, cat.Slug).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicateCategoryName
		}
		if cat.ParentID != nil {
			var parent domain.Category
			if err := tx.First(&parent, *cat.ParentID).Error; err != nil {
				return notFound(err)
			}
			if !parent.IsTopLevel() {
				return ErrInvalidInput // Tree only shows top-level nodes and their children
			}
		}
		return tx.Create(cat).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrDuplicateCategoryName
	} else if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"category_id": cat.ID,
		"name":        cat.Name,
		"parent_id":   cat.ParentID,
	}).Info("Category added")
	return cat, nil
}

// ListTopLevel returns the categories without a parent.
func (s *Service) ListTopLevel(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := s.db.WithContext(ctx).Where("parent_id IS NULL").Order("id").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// ListChildren returns the direct children of a category.
func (s *Service) ListChildren(ctx context.Context, parentID uint) ([]domain.Category, error) {
	var cats []domain.Category
	if err := s.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("id").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list child categories: %w", err)
	}
	return cats, nil
}

// ListCategories returns every category, flat.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var cats []domain.Category
	if err := s.db.WithContext(ctx).Order("id").Find(&cats).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// FindCategoryByName looks a category up by its exact name.
func (s *Service) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	var cat domain.Category
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&cat).Error; err != nil {
		return nil, notFound(err)
	}
	return &cat, nil
}

// Tree returns the top-level categories with their children loaded.
func (s *Service) Tree(ctx context.Context) ([]domain.Category, error) {
	var roots []domain.Category
	err := s.db.WithContext(ctx).
		Preload("Children", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("parent_id IS NULL").Order("id").Find(&roots).Error
	if err != nil {
		return nil, fmt.Errorf("load category tree: %w", err)
	}
	return roots, nil
}

// SeedCategories adds names as top-level categories when the tree is empty.
// It returns how many were created.
func (s *Service) SeedCategories(ctx context.Context, names []string) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&domain.Category{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	created := 0
	for _, name := range names {
		if _, err := s.AddCategory(ctx, CategoryInput{Name: name}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
