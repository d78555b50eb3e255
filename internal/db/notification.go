package db

import "gorm.io/gorm"

// Notification event types.
const (
	NotificationComment  = "comment"
	NotificationLike     = "like"
	NotificationFollow   = "follow"
	NotificationBookmark = "bookmark"
	NotificationShare    = "share"
)

// Kinds of records a notification may point at. The reference is a tagged
// pair instead of a bare id so lookups stay type-safe.
const (
	RefKindPost    = "post"
	RefKindComment = "comment"
	RefKindAuthor  = "author"
)

// Notification is an addressed event record for an Author.
type Notification struct {
	gorm.Model
	RecipientID uint   `gorm:"index;not null"`
	Recipient   Author `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE"`
	Type        string `gorm:"size:20;default:like;not null"`
	RefKind     string `gorm:"size:20;not null"`
	RefID       uint   `gorm:"not null"`
	Message     string `gorm:"type:text"`
	IsRead      bool   `gorm:"default:false"`
}
