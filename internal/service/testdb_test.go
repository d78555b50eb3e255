package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/nitman/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

// createTestAuthor registers a user and returns its auto-created author.
func createTestAuthor(t *testing.T, gdb *gorm.DB, email string) *db.Author {
	t.Helper()

	users := NewUserService(gdb)
	user, err := users.Register(RegisterInput{
		Name:     "Test Author",
		Email:    email,
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("failed to register test user: %v", err)
	}

	author, err := users.AuthorByUser(user.ID)
	if err != nil {
		t.Fatalf("failed to resolve test author: %v", err)
	}
	return author
}

// createTestPost persists a post through the full lifecycle pipeline.
func createTestPost(t *testing.T, gdb *gorm.DB, authorID uint, title, content string) *db.Post {
	t.Helper()

	post, err := NewPostService(gdb).Create(PostInput{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	})
	if err != nil {
		t.Fatalf("failed to create test post: %v", err)
	}
	return post
}
