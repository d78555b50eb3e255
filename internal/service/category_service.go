package service

import (
	"errors"
	"strings"

	"github.com/nitman/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category name or slug already exists")
	ErrCategoryCycle    = errors.New("category cannot be nested under its own subtree")
	ErrMissingCategory  = errors.New("category name and slug are required")
)

// CategoryService manages the self-referential category tree. Traversal is
// always an explicit walk over the parent_id index.
type CategoryService struct {
	db *gorm.DB
}

// CategoryInput represents fields accepted when creating or updating
// a category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	ParentID    *uint
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// Create persists a category under an optional parent.
func (s *CategoryService) Create(input CategoryInput) (*db.Category, error) {
	name := strings.TrimSpace(input.Name)
	slug := strings.TrimSpace(input.Slug)
	if name == "" || slug == "" {
		return nil, ErrMissingCategory
	}

	if input.ParentID != nil {
		if _, err := s.Get(*input.ParentID); err != nil {
			return nil, err
		}
	}

	category := db.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		ParentID:    input.ParentID,
	}
	if err := s.db.Create(&category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return &category, nil
}

// Get fetches a category by id.
func (s *CategoryService) Get(id uint) (*db.Category, error) {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// List returns all categories, newest first.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("created_at desc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Children returns the direct children of a category.
func (s *CategoryService) Children(id uint) ([]db.Category, error) {
	var children []db.Category
	if err := s.db.Where("parent_id = ?", id).
		Order("name asc").Find(&children).Error; err != nil {
		return nil, err
	}
	return children, nil
}

// Ancestors walks parent links from a category up to the root, nearest
// parent first.
func (s *CategoryService) Ancestors(id uint) ([]db.Category, error) {
	category, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var ancestors []db.Category
	for category.ParentID != nil {
		parent, err := s.Get(*category.ParentID)
		if err != nil {
			return nil, err
		}
		ancestors = append(ancestors, *parent)
		category = parent
	}
	return ancestors, nil
}

// Move reattaches a category under a new parent (nil for root level),
// rejecting self or descendant parents to keep the tree acyclic.
func (s *CategoryService) Move(id uint, newParentID *uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category db.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		if newParentID != nil {
			var parent db.Category
			if err := tx.First(&parent, *newParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCategoryNotFound
				}
				return err
			}

			ids, err := categorySubtreeIDs(tx, id)
			if err != nil {
				return err
			}
			for _, member := range ids {
				if member == *newParentID {
					return ErrCategoryCycle
				}
			}
		}

		return tx.Model(&category).Update("parent_id", newParentID).Error
	})
}

// Delete removes a category and its whole subtree.
func (s *CategoryService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category db.Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return err
		}

		ids, err := categorySubtreeIDs(tx, id)
		if err != nil {
			return err
		}
		return tx.Delete(&db.Category{}, ids).Error
	})
}

func categorySubtreeIDs(tx *gorm.DB, rootID uint) ([]uint, error) {
	ids := []uint{rootID}
	frontier := []uint{rootID}

	for len(frontier) > 0 {
		var children []uint
		if err := tx.Model(&db.Category{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		ids = append(ids, children...)
		frontier = children
	}
	return ids, nil
}
