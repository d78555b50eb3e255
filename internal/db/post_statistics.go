package db

import "time"

// PostStatistics holds engagement counters for a post, 1:1, created together
// with it. Counters only ever move up, via atomic column increments.
type PostStatistics struct {
	ID           uint `gorm:"primaryKey"`
	PostID       uint `gorm:"uniqueIndex;not null"`
	Post         Post `gorm:"constraint:OnDelete:CASCADE"`
	ViewCount    uint `gorm:"default:0"`
	LikeCount    uint `gorm:"default:0"`
	ShareCount   uint `gorm:"default:0"`
	AvgReadTime  time.Duration
	LastViewedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName avoids automatic pluralization mangling "statistics".
func (PostStatistics) TableName() string {
	return "post_statistics"
}

// PostVisit tracks per-visitor view history so repeat views inside the dedup
// window do not inflate the view counter.
type PostVisit struct {
	ID            uint   `gorm:"primaryKey"`
	PostID        uint   `gorm:"uniqueIndex:idx_post_visits_post_visitor"`
	VisitorID     string `gorm:"size:64;uniqueIndex:idx_post_visits_post_visitor"`
	LastViewedAt  time.Time
	LastCountedAt time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName pins the visit table name.
func (PostVisit) TableName() string {
	return "post_visits"
}
