package db

import "gorm.io/gorm"

// Category is a self-referential taxonomy node. Children are found by
// walking the parent_id index, never by an embedded collection.
type Category struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex;not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string
	ParentID    *uint `gorm:"index"`
}
