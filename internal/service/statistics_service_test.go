package service

import (
	"errors"
	"testing"
	"time"
)

func TestIncrementCountersIndependently(t *testing.T) {
	gdb := setupTestDB(t, "stats-increment")
	author := createTestAuthor(t, gdb, "stats@example.com")
	post := createTestPost(t, gdb, author.ID, "T", "C")
	svc := NewStatisticsService(gdb)

	for i := 0; i < 6; i++ {
		if err := svc.IncrementView(post.ID); err != nil {
			t.Fatalf("view increment failed: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := svc.IncrementLike(post.ID); err != nil {
			t.Fatalf("like increment failed: %v", err)
		}
	}
	if err := svc.IncrementShare(post.ID); err != nil {
		t.Fatalf("share increment failed: %v", err)
	}

	stats, err := svc.Get(post.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stats.ViewCount != 6 || stats.LikeCount != 2 || stats.ShareCount != 1 {
		t.Fatalf("expected counts 6/2/1, got %d/%d/%d", stats.ViewCount, stats.LikeCount, stats.ShareCount)
	}
}

func TestIncrementUnknownPost(t *testing.T) {
	gdb := setupTestDB(t, "stats-unknown")
	svc := NewStatisticsService(gdb)

	if err := svc.IncrementView(9999); !errors.Is(err, ErrStatisticsNotFound) {
		t.Fatalf("expected ErrStatisticsNotFound, got %v", err)
	}
}

func TestRecordViewDedupsWithinWindow(t *testing.T) {
	gdb := setupTestDB(t, "stats-dedup")
	author := createTestAuthor(t, gdb, "dedup@example.com")
	post := createTestPost(t, gdb, author.ID, "T", "C")
	svc := NewStatisticsService(gdb).WithDedupWindow(30 * time.Minute)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	stats, err := svc.RecordView(post.ID, "visitor-a", base)
	if err != nil {
		t.Fatalf("first view failed: %v", err)
	}
	if stats.ViewCount != 1 {
		t.Fatalf("expected view count 1, got %d", stats.ViewCount)
	}

	// Same visitor again, inside the window: counter holds, stamp moves.
	stats, err = svc.RecordView(post.ID, "visitor-a", base.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("repeat view failed: %v", err)
	}
	if stats.ViewCount != 1 {
		t.Fatalf("repeat view inside window must not count, got %d", stats.ViewCount)
	}
	if stats.LastViewedAt == nil || !stats.LastViewedAt.Equal(base.Add(5*time.Minute)) {
		t.Fatalf("last_viewed_at not refreshed, got %v", stats.LastViewedAt)
	}

	// A different visitor counts immediately.
	stats, err = svc.RecordView(post.ID, "visitor-b", base.Add(6*time.Minute))
	if err != nil {
		t.Fatalf("second visitor failed: %v", err)
	}
	if stats.ViewCount != 2 {
		t.Fatalf("expected view count 2 after second visitor, got %d", stats.ViewCount)
	}

	// The first visitor counts again once the window has elapsed.
	stats, err = svc.RecordView(post.ID, "visitor-a", base.Add(31*time.Minute))
	if err != nil {
		t.Fatalf("post-window view failed: %v", err)
	}
	if stats.ViewCount != 3 {
		t.Fatalf("expected view count 3 after window elapsed, got %d", stats.ViewCount)
	}
}

func TestTouchAndAvgReadTime(t *testing.T) {
	gdb := setupTestDB(t, "stats-touch")
	author := createTestAuthor(t, gdb, "touch@example.com")
	post := createTestPost(t, gdb, author.ID, "T", "C")
	svc := NewStatisticsService(gdb)

	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	if err := svc.TouchLastViewed(post.ID, at); err != nil {
		t.Fatalf("touch failed: %v", err)
	}
	if err := svc.SetAvgReadTime(post.ID, 4*time.Minute); err != nil {
		t.Fatalf("set avg read time failed: %v", err)
	}

	stats, err := svc.Get(post.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stats.LastViewedAt == nil || !stats.LastViewedAt.Equal(at) {
		t.Fatalf("last_viewed_at not stored, got %v", stats.LastViewedAt)
	}
	if stats.AvgReadTime != 4*time.Minute {
		t.Fatalf("avg read time not stored, got %v", stats.AvgReadTime)
	}
}
