package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/nitman/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrVersionNotFound  = errors.New("post version not found")
	ErrMissingPostField = errors.New("title and content are required")
	ErrMissingAuthor    = errors.New("post author is required")
)

// PostService owns the post lifecycle: creating a post brings its
// statistics row, version 1 and initial schedule into existence together,
// and every later save appends the next version snapshot.
type PostService struct {
	db *gorm.DB
}

// PostInput represents fields accepted when creating a post.
type PostInput struct {
	Title    string
	Content  string
	AuthorID uint
	TagIDs   []uint
}

// PostUpdateInput carries optional field changes; nil leaves a field as is.
type PostUpdateInput struct {
	Title   *string
	Content *string
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// Create persists a post and, in the same transaction, the zeroed
// statistics row, version 1 mirroring the initial title/content, and an
// unpublished schedule set for now.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, ErrMissingPostField
	}
	if input.AuthorID == 0 {
		return nil, ErrMissingAuthor
	}

	var author db.Author
	if err := s.db.First(&author, input.AuthorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissingAuthor
		}
		return nil, err
	}

	post := db.Post{Title: title, Content: content, AuthorID: author.ID}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		if len(input.TagIDs) > 0 {
			var tags []db.Tag
			if err := tx.Find(&tags, input.TagIDs).Error; err != nil {
				return err
			}
			if err := tx.Model(&post).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}

		if err := createPostSiblings(tx, &post); err != nil {
			return err
		}

		return tx.Model(&db.Author{}).Where("id = ?", author.ID).
			UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error
	}); err != nil {
		return nil, err
	}

	if err := s.db.Preload("Tags").Preload("Author.User").First(&post, post.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// createPostSiblings installs the rows every post must carry. Idempotent:
// the statistics upsert checks existence through its unique index, and the
// version insert is skipped when version 1 is already there, so a retried
// creation does not duplicate rows.
func createPostSiblings(tx *gorm.DB, post *db.Post) error {
	stats := db.PostStatistics{PostID: post.ID}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}},
		DoNothing: true,
	}).Create(&stats).Error; err != nil {
		return err
	}

	authorID := post.AuthorID
	version := db.PostVersion{
		PostID:        post.ID,
		Title:         post.Title,
		Content:       post.Content,
		VersionNumber: 1,
		ContentHash:   contentHash(post.Title, post.Content),
		CreatedByID:   &authorID,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "version_number"}},
		DoNothing: true,
	}).Create(&version).Error; err != nil {
		return err
	}

	var scheduled int64
	if err := tx.Model(&db.PostSchedule{}).Where("post_id = ?", post.ID).Count(&scheduled).Error; err != nil {
		return err
	}
	if scheduled > 0 {
		return nil
	}
	schedule := db.PostSchedule{PostID: post.ID, ScheduledFor: time.Now()}
	return tx.Create(&schedule).Error
}

// Update persists changed fields and appends the next version snapshot,
// numbered one past the highest existing number. The post row is locked for
// the duration of the read-then-insert pair so two concurrent saves cannot
// derive the same version number; the composite unique index backstops
// that, with a single retry on conflict.
//
// A save that changes nothing (same title and content hash as the latest
// version) skips version creation.
func (s *PostService) Update(id uint, input PostUpdateInput) (*db.Post, error) {
	post, err := s.applyUpdate(id, input)
	if err != nil && isUniqueViolation(err) {
		post, err = s.applyUpdate(id, input)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) applyUpdate(id uint, input PostUpdateInput) (*db.Post, error) {
	var post db.Post

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		if input.Title != nil {
			trimmed := strings.TrimSpace(*input.Title)
			if trimmed == "" {
				return ErrMissingPostField
			}
			post.Title = trimmed
		}
		if input.Content != nil {
			trimmed := strings.TrimSpace(*input.Content)
			if trimmed == "" {
				return ErrMissingPostField
			}
			post.Content = trimmed
		}

		if err := tx.Save(&post).Error; err != nil {
			return err
		}

		hash := contentHash(post.Title, post.Content)

		var latest db.PostVersion
		err := tx.Where("post_id = ?", post.ID).
			Order("version_number desc").
			First(&latest).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err == nil && latest.ContentHash == hash {
			return nil
		}

		authorID := post.AuthorID
		version := db.PostVersion{
			PostID:        post.ID,
			Title:         post.Title,
			Content:       post.Content,
			VersionNumber: latest.VersionNumber + 1,
			ContentHash:   hash,
			CreatedByID:   &authorID,
		}
		return tx.Create(&version).Error
	}); err != nil {
		return nil, err
	}

	return &post, nil
}

// Get fetches a post with tags and author preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Tags").Preload("Author.User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// List returns all posts ordered by created time descending.
func (s *PostService) List() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Preload("Tags").Preload("Author.User").
		Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes a post together with its dependent rows.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post db.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}

		for _, m := range []interface{}{&db.PostVersion{}, &db.PostStatistics{}, &db.PostSchedule{}, &db.Comment{}, &db.Bookmark{}, &db.PostVisit{}} {
			if err := tx.Where("post_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&db.Post{}, id).Error
	})
}

// Versions lists a post's snapshots in version order.
func (s *PostService) Versions(postID uint) ([]db.PostVersion, error) {
	var versions []db.PostVersion
	if err := s.db.Where("post_id = ?", postID).
		Order("version_number asc").Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

// DeleteVersion removes a snapshot without touching the post. Remaining
// version numbers are not renumbered; gaps after deletion are accepted.
// The delete is unscoped so the freed number does not linger in the
// uniqueness index.
func (s *PostService) DeleteVersion(versionID uint) error {
	res := s.db.Unscoped().Delete(&db.PostVersion{}, versionID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionNotFound
	}
	return nil
}

func contentHash(title, content string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + content))
	return hex.EncodeToString(sum[:])
}
