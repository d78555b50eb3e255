package service

import (
	"errors"
	"time"

	"github.com/nitman/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultViewDedupWindow = 30 * time.Minute

var ErrStatisticsNotFound = errors.New("post statistics not found")

// StatisticsService maintains per-post engagement counters. Every increment
// is a single atomic column update at the database, never a read-modify-write
// in application code.
type StatisticsService struct {
	db          *gorm.DB
	dedupWindow time.Duration
}

// NewStatisticsService creates a StatisticsService with a 30 minute view
// dedup window.
func NewStatisticsService(gdb *gorm.DB) *StatisticsService {
	return &StatisticsService{db: gdb, dedupWindow: defaultViewDedupWindow}
}

// WithDedupWindow adjusts the dedup window, mainly for tests.
func (s *StatisticsService) WithDedupWindow(d time.Duration) *StatisticsService {
	if d > 0 {
		s.dedupWindow = d
	}
	return s
}

// Get fetches the statistics row for a post.
func (s *StatisticsService) Get(postID uint) (*db.PostStatistics, error) {
	var stats db.PostStatistics
	if err := s.db.Where("post_id = ?", postID).First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStatisticsNotFound
		}
		return nil, err
	}
	return &stats, nil
}

// IncrementView adds one view.
func (s *StatisticsService) IncrementView(postID uint) error {
	return s.increment(postID, "view_count")
}

// IncrementLike adds one like.
func (s *StatisticsService) IncrementLike(postID uint) error {
	return s.increment(postID, "like_count")
}

// IncrementShare adds one share.
func (s *StatisticsService) IncrementShare(postID uint) error {
	return s.increment(postID, "share_count")
}

func (s *StatisticsService) increment(postID uint, column string) error {
	res := s.db.Model(&db.PostStatistics{}).
		Where("post_id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatisticsNotFound
	}
	return nil
}

// TouchLastViewed stamps the last-viewed time.
func (s *StatisticsService) TouchLastViewed(postID uint, now time.Time) error {
	res := s.db.Model(&db.PostStatistics{}).
		Where("post_id = ?", postID).
		UpdateColumn("last_viewed_at", now)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatisticsNotFound
	}
	return nil
}

// SetAvgReadTime records the average read time measured upstream.
func (s *StatisticsService) SetAvgReadTime(postID uint, d time.Duration) error {
	res := s.db.Model(&db.PostStatistics{}).
		Where("post_id = ?", postID).
		UpdateColumn("avg_read_time", d)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatisticsNotFound
	}
	return nil
}

// RecordView counts a visitor's view unless the same visitor was already
// counted inside the dedup window, then stamps last_viewed_at. Returns the
// refreshed statistics row.
func (s *StatisticsService) RecordView(postID uint, visitorID string, now time.Time) (*db.PostStatistics, error) {
	if postID == 0 || visitorID == "" {
		return nil, errors.New("invalid visitor or post id")
	}

	var stats db.PostStatistics

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		visit := db.PostVisit{
			PostID:        postID,
			VisitorID:     visitorID,
			LastViewedAt:  now,
			LastCountedAt: now,
		}
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "visitor_id"}},
			DoNothing: true,
		}).Create(&visit)
		if insert.Error != nil {
			return insert.Error
		}

		countable := insert.RowsAffected == 1
		if !countable {
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("post_id = ? AND visitor_id = ?", postID, visitorID).
				First(&visit).Error; err != nil {
				return err
			}
			countable = now.Sub(visit.LastCountedAt) >= s.dedupWindow
			visit.LastViewedAt = now
			if countable {
				visit.LastCountedAt = now
			}
			if err := tx.Save(&visit).Error; err != nil {
				return err
			}
		}

		if countable {
			if err := tx.Model(&db.PostStatistics{}).
				Where("post_id = ?", postID).
				UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&db.PostStatistics{}).
			Where("post_id = ?", postID).
			UpdateColumn("last_viewed_at", now).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", postID).First(&stats).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStatisticsNotFound
			}
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return &stats, nil
}
