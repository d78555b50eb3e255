package db

import "gorm.io/gorm"

// Tag is a flat, colored label attached to posts.
type Tag struct {
	gorm.Model
	Name  string `gorm:"uniqueIndex;not null"`
	Slug  string `gorm:"uniqueIndex;not null"`
	Color string `gorm:"size:7;default:#000000"`
	Posts []Post `gorm:"many2many:post_tags;"`
}
