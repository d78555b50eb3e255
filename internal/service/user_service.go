package service

import (
	"errors"
	"strings"

	"github.com/nitman/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAuthorNotFound     = errors.New("author not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingUserFields  = errors.New("name, email and password are required")
)

// UserService manages accounts and their author profiles.
type UserService struct {
	db *gorm.DB
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Register creates a User with a bcrypt-hashed password and its Author
// profile in a single transaction. Every user has exactly one author.
func (s *UserService) Register(input RegisterInput) (*db.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || strings.TrimSpace(input.Password) == "" {
		return nil, ErrMissingUserFields
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{Name: name, Email: email, Password: string(hashed)}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrEmailTaken
			}
			return err
		}
		return ensureAuthor(tx, user.ID)
	}); err != nil {
		return nil, err
	}

	return &user, nil
}

// ensureAuthor creates the author profile for a user if it does not exist
// yet. Existence-checked through the unique index so retried registrations
// stay idempotent.
func ensureAuthor(tx *gorm.DB, userID uint) error {
	author := db.Author{UserID: userID, SocialLinks: map[string]string{}}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&author).Error
}

// Authenticate verifies credentials and returns the matching user.
func (s *UserService) Authenticate(email, password string) (*db.User, error) {
	var user db.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// Get fetches a user by id.
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Delete removes a user. The author profile and everything it owns go with
// it through the cascade constraints.
func (s *UserService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var author db.Author
		err := tx.Where("user_id = ?", id).First(&author).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// account without a profile, nothing to cascade
		case err != nil:
			return err
		default:
			if err := deleteAuthorOwned(tx, author.ID); err != nil {
				return err
			}
			if err := tx.Delete(&db.Author{}, author.ID).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&db.User{}, id).Error
	})
}

// deleteAuthorOwned removes rows owned by an author. Comments are detached
// instead of deleted, matching SET NULL on the authorship reference.
func deleteAuthorOwned(tx *gorm.DB, authorID uint) error {
	var postIDs []uint
	if err := tx.Model(&db.Post{}).Where("author_id = ?", authorID).Pluck("id", &postIDs).Error; err != nil {
		return err
	}
	if len(postIDs) > 0 {
		for _, m := range []interface{}{&db.PostVersion{}, &db.PostStatistics{}, &db.PostSchedule{}, &db.Comment{}, &db.Bookmark{}} {
			if err := tx.Where("post_id IN ?", postIDs).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id IN ?", postIDs).Delete(&db.PostVisit{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&db.Post{}, postIDs).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("author_id = ?", authorID).Delete(&db.Draft{}).Error; err != nil {
		return err
	}
	if err := tx.Where("author_id = ?", authorID).Delete(&db.Bookmark{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipient_id = ?", authorID).Delete(&db.Notification{}).Error; err != nil {
		return err
	}
	return tx.Model(&db.Comment{}).Where("author_id = ?", authorID).Update("author_id", nil).Error
}

// AuthorByUser fetches the author profile backing a user.
func (s *UserService) AuthorByUser(userID uint) (*db.Author, error) {
	var author db.Author
	if err := s.db.Preload("User").Where("user_id = ?", userID).First(&author).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return &author, nil
}

// AuthorByEmail resolves an author profile through its user's email.
func (s *UserService) AuthorByEmail(email string) (*db.Author, error) {
	var author db.Author
	err := s.db.Preload("User").
		Joins("JOIN users ON users.id = authors.user_id").
		Where("users.email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&author).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return &author, nil
}

// ProfileInput carries the mutable author profile fields.
type ProfileInput struct {
	Website     string
	AvatarURL   string
	SocialLinks map[string]string
}

// UpdateProfile applies profile fields to an author.
func (s *UserService) UpdateProfile(authorID uint, input ProfileInput) (*db.Author, error) {
	var author db.Author
	if err := s.db.First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}

	author.Website = strings.TrimSpace(input.Website)
	author.AvatarURL = strings.TrimSpace(input.AvatarURL)
	if input.SocialLinks != nil {
		author.SocialLinks = input.SocialLinks
	}

	if err := s.db.Save(&author).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// AddFollower bumps the follower counter atomically.
func (s *UserService) AddFollower(authorID uint) error {
	res := s.db.Model(&db.Author{}).Where("id = ?", authorID).
		UpdateColumn("follower_count", gorm.Expr("follower_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrAuthorNotFound
	}
	return nil
}
