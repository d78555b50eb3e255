package db

import (
	"time"

	"gorm.io/gorm"
)

// PostSchedule is a publish attempt window consumed by the scheduler.
// PublishedAt is set exactly once, at the false→true transition of
// IsPublished, and never reset; RetryCount climbs on failed attempts.
type PostSchedule struct {
	gorm.Model
	PostID       uint      `gorm:"index;not null"`
	Post         Post      `gorm:"constraint:OnDelete:CASCADE"`
	ScheduledFor time.Time `gorm:"index;not null"`
	PublishedAt  *time.Time
	IsPublished  bool `gorm:"default:false"`
	RetryCount   uint `gorm:"default:0"`
}

// TableName pins the schedule table name.
func (PostSchedule) TableName() string {
	return "post_schedules"
}
