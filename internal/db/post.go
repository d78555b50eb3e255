package db

import "gorm.io/gorm"

// Post is a published, versioned article. Every save after the first appends
// a PostVersion snapshot; statistics and an initial schedule are created
// alongside the post itself.
type Post struct {
	gorm.Model
	Title    string `gorm:"size:200;not null"`
	Content  string `gorm:"type:text;not null"`
	AuthorID uint   `gorm:"index;not null"`
	Author   Author `gorm:"constraint:OnDelete:CASCADE"`
	Tags     []Tag  `gorm:"many2many:post_tags;"`
}
