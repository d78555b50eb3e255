package db

import "gorm.io/gorm"

// Author is the publishing profile backing a User, 1:1. It is created in the
// same transaction that creates its User and never independently.
type Author struct {
	gorm.Model
	UserID        uint `gorm:"uniqueIndex;not null"`
	User          User `gorm:"constraint:OnDelete:CASCADE"`
	AvatarURL     string
	Website       string
	SocialLinks   map[string]string `gorm:"serializer:json"`
	FollowerCount uint              `gorm:"default:0"`
	PostCount     uint              `gorm:"default:0"`
}

// TableName avoids the default pluralization ambiguity with "authors".
func (Author) TableName() string {
	return "authors"
}
