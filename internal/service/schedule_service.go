package service

import (
	"errors"
	"time"

	"github.com/nitman/internal/db"
	"gorm.io/gorm"
)

var ErrScheduleNotFound = errors.New("post schedule not found")

// ScheduleService exposes the publish-attempt state the scheduler worker
// reads and writes: scheduled_for, published_at, is_published, retry_count.
type ScheduleService struct {
	db *gorm.DB
}

// NewScheduleService creates a ScheduleService instance.
func NewScheduleService(gdb *gorm.DB) *ScheduleService {
	return &ScheduleService{db: gdb}
}

// Due returns unpublished schedules whose time has come, oldest first.
func (s *ScheduleService) Due(now time.Time) ([]db.PostSchedule, error) {
	var schedules []db.PostSchedule
	if err := s.db.Where("is_published = ? AND scheduled_for <= ?", false, now).
		Order("scheduled_for asc").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// ListByPost returns a post's schedules, newest window first.
func (s *ScheduleService) ListByPost(postID uint) ([]db.PostSchedule, error) {
	var schedules []db.PostSchedule
	if err := s.db.Where("post_id = ?", postID).
		Order("scheduled_for desc").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// Add opens a new publish window for a post.
func (s *ScheduleService) Add(postID uint, scheduledFor time.Time) (*db.PostSchedule, error) {
	schedule := db.PostSchedule{PostID: postID, ScheduledFor: scheduledFor}
	if err := s.db.Create(&schedule).Error; err != nil {
		return nil, err
	}
	return &schedule, nil
}

// MarkPublished flips is_published and stamps published_at exactly once.
// The guard on is_published makes a repeat call a no-op, so the timestamp
// is never reset after the false→true transition.
func (s *ScheduleService) MarkPublished(id uint, now time.Time) error {
	res := s.db.Model(&db.PostSchedule{}).
		Where("id = ? AND is_published = ?", id, false).
		Updates(map[string]interface{}{
			"is_published": true,
			"published_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var existing db.PostSchedule
		if err := s.db.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}
		// already published; keep the original timestamp
	}
	return nil
}

// RecordFailure bumps the retry counter atomically after a failed attempt.
func (s *ScheduleService) RecordFailure(id uint) error {
	res := s.db.Model(&db.PostSchedule{}).
		Where("id = ?", id).
		UpdateColumn("retry_count", gorm.Expr("retry_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
