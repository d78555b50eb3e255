package db

import (
	"time"

	"gorm.io/gorm"
)

// Draft statuses. Transitions between them are free-form.
const (
	DraftStatusActive   = "active"
	DraftStatusArchived = "archived"
	DraftStatusDeleted  = "deleted"
)

// Draft is an unpublished working copy owned by an Author. When no publish
// time is supplied at creation it defaults to creation time plus seven days,
// evaluated once and never recomputed.
type Draft struct {
	gorm.Model
	AuthorID           uint   `gorm:"index;not null"`
	Author             Author `gorm:"constraint:OnDelete:CASCADE"`
	Title              string `gorm:"size:200;not null"`
	Content            string `gorm:"type:text"`
	Status             string `gorm:"size:20;default:active"`
	ScheduledPublishAt time.Time
}
