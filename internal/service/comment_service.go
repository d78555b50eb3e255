package service

import (
	"errors"
	"strings"

	"github.com/nitman/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound    = errors.New("comment not found")
	ErrMissingComment     = errors.New("comment content is required")
	ErrRatingOutOfRange   = errors.New("rating must be between 1 and 5")
	ErrParentWrongPost    = errors.New("parent comment belongs to another post")
	ErrCommentCycle       = errors.New("comment cannot be reparented under its own subtree")
	ErrParentNotFound     = errors.New("parent comment not found")
	ErrCommentPostMissing = errors.New("comment post not found")
)

// CommentService manages threaded reader feedback on posts.
type CommentService struct {
	db *gorm.DB
}

// CommentInput represents fields accepted when creating a comment.
type CommentInput struct {
	PostID   uint
	AuthorID *uint
	ParentID *uint
	Content  string
	Rating   *int
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Create persists a comment. A reply's parent must exist on the same post,
// and a rating, when present, must sit in 1..5.
func (s *CommentService) Create(input CommentInput) (*db.Comment, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrMissingComment
	}
	if input.Rating != nil && (*input.Rating < 1 || *input.Rating > 5) {
		return nil, ErrRatingOutOfRange
	}

	var post db.Post
	if err := s.db.First(&post, input.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentPostMissing
		}
		return nil, err
	}

	if input.ParentID != nil {
		var parent db.Comment
		if err := s.db.First(&parent, *input.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.PostID != input.PostID {
			return nil, ErrParentWrongPost
		}
	}

	comment := db.Comment{
		PostID:   input.PostID,
		AuthorID: input.AuthorID,
		ParentID: input.ParentID,
		Content:  input.Content,
		Rating:   input.Rating,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Get fetches a comment by id.
func (s *CommentService) Get(id uint) (*db.Comment, error) {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns a post's comments, newest first.
func (s *CommentService) ListByPost(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.Where("post_id = ?", postID).
		Order("created_at desc").Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Replies returns the direct children of a comment.
func (s *CommentService) Replies(id uint) ([]db.Comment, error) {
	var replies []db.Comment
	if err := s.db.Where("parent_id = ?", id).
		Order("created_at asc").Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

// Approve sets the moderation flag.
func (s *CommentService) Approve(id uint) error {
	res := s.db.Model(&db.Comment{}).Where("id = ?", id).Update("is_approved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// Delete removes a comment and, level by level over the parent-id index,
// every transitive reply under it.
func (s *CommentService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var root db.Comment
		if err := tx.First(&root, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}

		ids, err := subtreeIDs(tx, id)
		if err != nil {
			return err
		}
		return tx.Delete(&db.Comment{}, ids).Error
	})
}

// Reparent moves a comment under a new parent (nil for top level). The new
// parent must be on the same post and must not be the comment itself or any
// of its descendants; cycles are rejected at write time.
func (s *CommentService) Reparent(id uint, newParentID *uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var comment db.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}

		if newParentID != nil {
			var parent db.Comment
			if err := tx.First(&parent, *newParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrParentNotFound
				}
				return err
			}
			if parent.PostID != comment.PostID {
				return ErrParentWrongPost
			}

			ids, err := subtreeIDs(tx, id)
			if err != nil {
				return err
			}
			for _, member := range ids {
				if member == *newParentID {
					return ErrCommentCycle
				}
			}
		}

		return tx.Model(&comment).Update("parent_id", newParentID).Error
	})
}

// subtreeIDs collects a comment's id and all transitive reply ids by
// breadth-first walks over the parent_id index.
func subtreeIDs(tx *gorm.DB, rootID uint) ([]uint, error) {
	ids := []uint{rootID}
	frontier := []uint{rootID}

	for len(frontier) > 0 {
		var children []uint
		if err := tx.Model(&db.Comment{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &children).Error; err != nil {
			return nil, err
		}
		ids = append(ids, children...)
		frontier = children
	}
	return ids, nil
}
