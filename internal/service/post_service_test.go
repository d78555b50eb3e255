package service

import (
	"errors"
	"testing"
	"time"

	"github.com/nitman/internal/db"
)

func TestCreatePostInstallsSiblingRows(t *testing.T) {
	gdb := setupTestDB(t, "post-create")
	author := createTestAuthor(t, gdb, "author@example.com")

	before := time.Now()
	post := createTestPost(t, gdb, author.ID, "T", "C")

	var stats db.PostStatistics
	if err := gdb.Where("post_id = ?", post.ID).First(&stats).Error; err != nil {
		t.Fatalf("statistics row missing: %v", err)
	}
	if stats.ViewCount != 0 || stats.LikeCount != 0 || stats.ShareCount != 0 {
		t.Fatalf("expected zeroed counters, got %d/%d/%d", stats.ViewCount, stats.LikeCount, stats.ShareCount)
	}
	if stats.LastViewedAt != nil {
		t.Fatalf("expected nil last_viewed_at, got %v", stats.LastViewedAt)
	}

	var version db.PostVersion
	if err := gdb.Where("post_id = ?", post.ID).First(&version).Error; err != nil {
		t.Fatalf("version row missing: %v", err)
	}
	if version.VersionNumber != 1 {
		t.Fatalf("expected version 1, got %d", version.VersionNumber)
	}
	if version.Title != "T" || version.Content != "C" {
		t.Fatalf("version 1 does not mirror post fields: %q/%q", version.Title, version.Content)
	}
	if version.CreatedByID == nil || *version.CreatedByID != author.ID {
		t.Fatalf("version 1 not attributed to the post author")
	}

	var schedule db.PostSchedule
	if err := gdb.Where("post_id = ?", post.ID).First(&schedule).Error; err != nil {
		t.Fatalf("schedule row missing: %v", err)
	}
	if schedule.IsPublished || schedule.RetryCount != 0 || schedule.PublishedAt != nil {
		t.Fatalf("expected fresh unpublished schedule, got %+v", schedule)
	}
	if schedule.ScheduledFor.Before(before.Add(-time.Second)) || schedule.ScheduledFor.After(time.Now().Add(time.Second)) {
		t.Fatalf("expected scheduled_for near creation time, got %v", schedule.ScheduledFor)
	}

	var postCountAuthor db.Author
	if err := gdb.First(&postCountAuthor, author.ID).Error; err != nil {
		t.Fatalf("failed to reload author: %v", err)
	}
	if postCountAuthor.PostCount != 1 {
		t.Fatalf("expected post_count 1, got %d", postCountAuthor.PostCount)
	}
}

func TestCreatePostValidation(t *testing.T) {
	gdb := setupTestDB(t, "post-validation")
	author := createTestAuthor(t, gdb, "author@example.com")
	svc := NewPostService(gdb)

	if _, err := svc.Create(PostInput{Title: "", Content: "C", AuthorID: author.ID}); !errors.Is(err, ErrMissingPostField) {
		t.Fatalf("expected ErrMissingPostField for empty title, got %v", err)
	}
	if _, err := svc.Create(PostInput{Title: "T", Content: "  ", AuthorID: author.ID}); !errors.Is(err, ErrMissingPostField) {
		t.Fatalf("expected ErrMissingPostField for empty content, got %v", err)
	}
	if _, err := svc.Create(PostInput{Title: "T", Content: "C"}); !errors.Is(err, ErrMissingAuthor) {
		t.Fatalf("expected ErrMissingAuthor for zero author, got %v", err)
	}
	if _, err := svc.Create(PostInput{Title: "T", Content: "C", AuthorID: author.ID + 99}); !errors.Is(err, ErrMissingAuthor) {
		t.Fatalf("expected ErrMissingAuthor for unknown author, got %v", err)
	}
}

func TestUpdateAppendsMonotonicVersions(t *testing.T) {
	gdb := setupTestDB(t, "post-versions")
	author := createTestAuthor(t, gdb, "author@example.com")
	svc := NewPostService(gdb)

	post := createTestPost(t, gdb, author.ID, "T", "C")

	for i, content := range []string{"C2", "C3", "C4"} {
		c := content
		if _, err := svc.Update(post.ID, PostUpdateInput{Content: &c}); err != nil {
			t.Fatalf("update %d failed: %v", i+2, err)
		}
	}

	versions, err := svc.Versions(post.ID)
	if err != nil {
		t.Fatalf("failed to list versions: %v", err)
	}
	if len(versions) != 4 {
		t.Fatalf("expected 4 versions, got %d", len(versions))
	}
	for i, v := range versions {
		if v.VersionNumber != uint(i+1) {
			t.Fatalf("expected version %d at index %d, got %d", i+1, i, v.VersionNumber)
		}
	}
	if versions[3].Content != "C4" {
		t.Fatalf("latest version should capture the new content, got %q", versions[3].Content)
	}
}

func TestUpdateWithoutChangesSkipsVersion(t *testing.T) {
	gdb := setupTestDB(t, "post-noop")
	author := createTestAuthor(t, gdb, "author@example.com")
	svc := NewPostService(gdb)

	post := createTestPost(t, gdb, author.ID, "T", "C")

	sameTitle, sameContent := "T", "C"
	if _, err := svc.Update(post.ID, PostUpdateInput{Title: &sameTitle, Content: &sameContent}); err != nil {
		t.Fatalf("no-op update failed: %v", err)
	}

	versions, err := svc.Versions(post.ID)
	if err != nil {
		t.Fatalf("failed to list versions: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("no-op update must not append a version, got %d versions", len(versions))
	}
}

func TestVersionNumbersUniquePerPost(t *testing.T) {
	gdb := setupTestDB(t, "post-version-unique")
	author := createTestAuthor(t, gdb, "author@example.com")

	post := createTestPost(t, gdb, author.ID, "T", "C")

	// a second writer computing the same number must be rejected by the
	// composite index, which is what Update's retry leans on
	authorID := author.ID
	dup := db.PostVersion{
		PostID:        post.ID,
		Title:         "T",
		Content:       "C",
		VersionNumber: 1,
		CreatedByID:   &authorID,
	}
	err := gdb.Create(&dup).Error
	if err == nil {
		t.Fatal("expected duplicate version number to violate the unique index")
	}
	if !isUniqueViolation(err) {
		t.Fatalf("expected a uniqueness violation, got %v", err)
	}
}

func TestUpdateRecountsAfterForeignVersion(t *testing.T) {
	gdb := setupTestDB(t, "post-version-recount")
	author := createTestAuthor(t, gdb, "author@example.com")
	svc := NewPostService(gdb)

	post := createTestPost(t, gdb, author.ID, "T", "C")

	// simulate another writer having appended version 2 already
	authorID := author.ID
	foreign := db.PostVersion{
		PostID:        post.ID,
		Title:         "T",
		Content:       "C-other",
		VersionNumber: 2,
		ContentHash:   "other",
		CreatedByID:   &authorID,
	}
	if err := gdb.Create(&foreign).Error; err != nil {
		t.Fatalf("failed to insert concurrent version: %v", err)
	}

	newContent := "C-mine"
	if _, err := svc.Update(post.ID, PostUpdateInput{Content: &newContent}); err != nil {
		t.Fatalf("update after concurrent version failed: %v", err)
	}

	versions, err := svc.Versions(post.ID)
	if err != nil {
		t.Fatalf("failed to list versions: %v", err)
	}
	if len(versions) != 3 || versions[2].VersionNumber != 3 {
		t.Fatalf("expected version 3 appended after concurrent writer, got %+v", versions)
	}
}

func TestDeleteVersionKeepsGaps(t *testing.T) {
	gdb := setupTestDB(t, "post-version-delete")
	author := createTestAuthor(t, gdb, "author@example.com")
	svc := NewPostService(gdb)

	post := createTestPost(t, gdb, author.ID, "T", "C")
	for _, content := range []string{"C2", "C3"} {
		c := content
		if _, err := svc.Update(post.ID, PostUpdateInput{Content: &c}); err != nil {
			t.Fatalf("update failed: %v", err)
		}
	}

	versions, _ := svc.Versions(post.ID)
	if err := svc.DeleteVersion(versions[1].ID); err != nil {
		t.Fatalf("failed to delete version: %v", err)
	}

	remaining, err := svc.Versions(post.ID)
	if err != nil {
		t.Fatalf("failed to list versions: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 versions after deletion, got %d", len(remaining))
	}
	if remaining[0].VersionNumber != 1 || remaining[1].VersionNumber != 3 {
		t.Fatalf("deletion must not renumber: got %d and %d", remaining[0].VersionNumber, remaining[1].VersionNumber)
	}

	if _, err := svc.Get(post.ID); err != nil {
		t.Fatalf("post must survive version deletion: %v", err)
	}

	if err := svc.DeleteVersion(9999); !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
}

func TestDeletePostRemovesDependents(t *testing.T) {
	gdb := setupTestDB(t, "post-delete")
	author := createTestAuthor(t, gdb, "author@example.com")
	svc := NewPostService(gdb)

	post := createTestPost(t, gdb, author.ID, "T", "C")
	if err := svc.Delete(post.ID); err != nil {
		t.Fatalf("failed to delete post: %v", err)
	}

	var count int64
	gdb.Model(&db.PostStatistics{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 0 {
		t.Fatal("statistics row must not outlive its post")
	}
	gdb.Model(&db.PostVersion{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 0 {
		t.Fatal("version rows must not outlive their post")
	}
	gdb.Model(&db.PostSchedule{}).Where("post_id = ?", post.ID).Count(&count)
	if count != 0 {
		t.Fatal("schedule rows must not outlive their post")
	}
}
