package service

import (
	"errors"
	"strings"

	"github.com/nitman/internal/db"
	"gorm.io/gorm"
)

var (
	ErrBookmarkNotFound = errors.New("bookmark not found")
	ErrBookmarkExists   = errors.New("post is already bookmarked by this author")
)

// BookmarkService manages saved-post markers, one per (author, post) pair.
type BookmarkService struct {
	db *gorm.DB
}

// NewBookmarkService creates a BookmarkService instance.
func NewBookmarkService(gdb *gorm.DB) *BookmarkService {
	return &BookmarkService{db: gdb}
}

// Create saves a bookmark. Duplicates are rejected by the unique index on
// (author_id, post_id), not by an application-level pre-check, so the
// guarantee holds under concurrent writers.
func (s *BookmarkService) Create(authorID, postID uint, notes string) (*db.Bookmark, error) {
	bookmark := db.Bookmark{
		AuthorID: authorID,
		PostID:   postID,
		Notes:    strings.TrimSpace(notes),
	}
	if err := s.db.Create(&bookmark).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrBookmarkExists
		}
		return nil, err
	}
	return &bookmark, nil
}

// ListByAuthor returns an author's bookmarks, newest first.
func (s *BookmarkService) ListByAuthor(authorID uint) ([]db.Bookmark, error) {
	var bookmarks []db.Bookmark
	if err := s.db.Preload("Post").Where("author_id = ?", authorID).
		Order("created_at desc").Find(&bookmarks).Error; err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// UpdateNotes replaces the notes on a bookmark.
func (s *BookmarkService) UpdateNotes(id uint, notes string) error {
	res := s.db.Model(&db.Bookmark{}).Where("id = ?", id).
		Update("notes", strings.TrimSpace(notes))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}

// Delete removes a bookmark by id, unscoped so the (author, post) pair can
// be bookmarked again later.
func (s *BookmarkService) Delete(id uint) error {
	res := s.db.Unscoped().Delete(&db.Bookmark{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}
