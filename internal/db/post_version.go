package db

import "gorm.io/gorm"

// PostVersion is an immutable snapshot of a post at a save event. The
// composite unique index backstops the count-derived version number against
// concurrent writers; numbers start at 1 and may gap only after deletions.
type PostVersion struct {
	gorm.Model
	PostID        uint   `gorm:"uniqueIndex:idx_post_versions_post_version;not null"`
	Post          Post   `gorm:"constraint:OnDelete:CASCADE"`
	Title         string `gorm:"size:200;not null"`
	Content       string `gorm:"type:text"`
	VersionNumber uint   `gorm:"uniqueIndex:idx_post_versions_post_version;not null"`
	ContentHash   string `gorm:"size:64"`
	CreatedByID   *uint
	CreatedBy     *Author `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
}

// TableName pins the snapshot table name.
func (PostVersion) TableName() string {
	return "post_versions"
}
