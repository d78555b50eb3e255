package db

import "gorm.io/gorm"

// Comment is reader feedback on a post, optionally threaded under a parent
// comment on the same post. Deleting a parent cascades through the whole
// reply subtree. The author reference survives author deletion as NULL.
type Comment struct {
	gorm.Model
	PostID     uint    `gorm:"index;not null"`
	Post       Post    `gorm:"constraint:OnDelete:CASCADE"`
	AuthorID   *uint   `gorm:"index"`
	Author     *Author `gorm:"constraint:OnDelete:SET NULL"`
	ParentID   *uint   `gorm:"index"`
	Content    string  `gorm:"type:text;not null"`
	Rating     *int
	IsApproved bool `gorm:"default:false"`
}
