package db

import "gorm.io/gorm"

// User is an account identity. Email is unique across the platform and the
// password is stored bcrypt-hashed, never in the clear.
type User struct {
	gorm.Model
	Name     string `gorm:"not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null" json:"-"`
}
