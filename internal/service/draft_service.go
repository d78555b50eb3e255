package service

import (
	"errors"
	"strings"
	"time"

	"github.com/nitman/internal/db"
	"gorm.io/gorm"
)

// Drafts without an explicit publish time get one this far in the future.
const draftDefaultPublishDelay = 7 * 24 * time.Hour

var (
	ErrDraftNotFound      = errors.New("draft not found")
	ErrMissingDraftFields = errors.New("draft title and content are required")
	ErrInvalidDraftStatus = errors.New("invalid draft status")
)

// DraftService manages unpublished working copies.
type DraftService struct {
	db *gorm.DB
}

// DraftInput represents fields accepted when creating or updating a draft.
type DraftInput struct {
	Title              string
	Content            string
	Status             string
	ScheduledPublishAt *time.Time
}

// NewDraftService creates a DraftService instance.
func NewDraftService(gdb *gorm.DB) *DraftService {
	return &DraftService{db: gdb}
}

// Create persists a draft. A missing publish time defaults to creation time
// plus seven days, evaluated exactly once here.
func (s *DraftService) Create(authorID uint, input DraftInput) (*db.Draft, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Content) == "" {
		return nil, ErrMissingDraftFields
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = db.DraftStatusActive
	}
	if !validDraftStatus(status) {
		return nil, ErrInvalidDraftStatus
	}

	scheduledAt := time.Now().Add(draftDefaultPublishDelay)
	if input.ScheduledPublishAt != nil && !input.ScheduledPublishAt.IsZero() {
		scheduledAt = *input.ScheduledPublishAt
	}

	draft := db.Draft{
		AuthorID:           authorID,
		Title:              title,
		Content:            input.Content,
		Status:             status,
		ScheduledPublishAt: scheduledAt,
	}
	if err := s.db.Create(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

// Update applies field changes. The publish time is only replaced when a new
// one is supplied; the creation-time default is never recomputed.
func (s *DraftService) Update(id uint, input DraftInput) (*db.Draft, error) {
	var draft db.Draft
	if err := s.db.First(&draft, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		draft.Title = title
	}
	if strings.TrimSpace(input.Content) != "" {
		draft.Content = input.Content
	}
	if status := strings.TrimSpace(input.Status); status != "" {
		if !validDraftStatus(status) {
			return nil, ErrInvalidDraftStatus
		}
		draft.Status = status
	}
	if input.ScheduledPublishAt != nil && !input.ScheduledPublishAt.IsZero() {
		draft.ScheduledPublishAt = *input.ScheduledPublishAt
	}

	if err := s.db.Save(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

// Get fetches a draft by id.
func (s *DraftService) Get(id uint) (*db.Draft, error) {
	var draft db.Draft
	if err := s.db.First(&draft, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return &draft, nil
}

// ListByAuthor returns an author's drafts, newest first.
func (s *DraftService) ListByAuthor(authorID uint) ([]db.Draft, error) {
	var drafts []db.Draft
	if err := s.db.Where("author_id = ?", authorID).
		Order("created_at desc").Find(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}

// Delete removes a draft by id.
func (s *DraftService) Delete(id uint) error {
	res := s.db.Delete(&db.Draft{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDraftNotFound
	}
	return nil
}

func validDraftStatus(status string) bool {
	switch status {
	case db.DraftStatusActive, db.DraftStatusArchived, db.DraftStatusDeleted:
		return true
	}
	return false
}
