package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/nitman/internal/db"
	"gorm.io/gorm"
)

var (
	ErrTagExists   = errors.New("tag name or slug already exists")
	ErrTagInUse    = errors.New("tag is associated with posts")
	ErrTagNotFound = errors.New("tag not found")
	ErrMissingTag  = errors.New("tag name is required")
	ErrTagColor    = errors.New("tag color must be a #rrggbb hex value")
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// TagService wraps tag related operations.
type TagService struct {
	db *gorm.DB
}

// TagUsage pairs a tag with the number of posts carrying it.
type TagUsage struct {
	ID    uint
	Name  string
	Count int64
}

// TagInput represents fields accepted when creating or updating a tag.
type TagInput struct {
	Name  string
	Slug  string
	Color string
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// Create persists a tag; the slug falls back to a lowercased name.
func (s *TagService) Create(input TagInput) (*db.Tag, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrMissingTag
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = slugify(name)
	}

	color := strings.TrimSpace(input.Color)
	if color == "" {
		color = "#000000"
	}
	if !hexColorPattern.MatchString(color) {
		return nil, ErrTagColor
	}

	tag := db.Tag{Name: name, Slug: slug, Color: color}
	if err := s.db.Create(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrTagExists
		}
		return nil, err
	}
	return &tag, nil
}

// Update applies field changes to an existing tag.
func (s *TagService) Update(id uint, input TagInput) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.First(&tag, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		tag.Name = name
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		tag.Slug = slug
	}
	if color := strings.TrimSpace(input.Color); color != "" {
		if !hexColorPattern.MatchString(color) {
			return nil, ErrTagColor
		}
		tag.Color = color
	}

	if err := s.db.Save(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrTagExists
		}
		return nil, err
	}
	return &tag, nil
}

// List returns tags ordered by name.
func (s *TagService) List() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// Usage returns per-tag post counts.
func (s *TagService) Usage() ([]TagUsage, error) {
	var rows []TagUsage
	if err := s.db.Table("tags").
		Select("tags.id, tags.name, COUNT(post_tags.post_id) AS count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Where("tags.deleted_at IS NULL").
		Group("tags.id, tags.name").
		Order("tags.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes a tag unless posts still carry it.
func (s *TagService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var tag db.Tag
		if err := tx.First(&tag, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTagNotFound
			}
			return err
		}

		var inUse int64
		if err := tx.Table("post_tags").Where("tag_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return ErrTagInUse
		}

		return tx.Delete(&db.Tag{}, id).Error
	})
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
