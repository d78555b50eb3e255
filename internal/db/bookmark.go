package db

import "gorm.io/gorm"

// Bookmark marks a saved post. The (author_id, post_id) pair is unique at
// the database level; duplicate saves must fail there, not in a pre-check.
type Bookmark struct {
	gorm.Model
	AuthorID uint   `gorm:"uniqueIndex:idx_bookmarks_author_post;not null"`
	Author   Author `gorm:"constraint:OnDelete:CASCADE"`
	PostID   uint   `gorm:"uniqueIndex:idx_bookmarks_author_post;not null"`
	Post     Post   `gorm:"constraint:OnDelete:CASCADE"`
	Notes    string `gorm:"type:text"`
}
