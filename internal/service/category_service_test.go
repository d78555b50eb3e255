package service

import (
	"errors"
	"testing"

	"github.com/nitman/internal/db"
)

// buildCategoryTree creates root -> mid -> leaf and returns all three.
func buildCategoryTree(t *testing.T, svc *CategoryService) (root, mid, leaf *db.Category) {
	t.Helper()

	root, err := svc.Create(CategoryInput{Name: "Tech", Slug: "tech"})
	if err != nil {
		t.Fatalf("create root failed: %v", err)
	}
	mid, err = svc.Create(CategoryInput{Name: "Go", Slug: "go", ParentID: &root.ID})
	if err != nil {
		t.Fatalf("create mid failed: %v", err)
	}
	leaf, err = svc.Create(CategoryInput{Name: "Testing", Slug: "testing", ParentID: &mid.ID})
	if err != nil {
		t.Fatalf("create leaf failed: %v", err)
	}
	return root, mid, leaf
}

func TestCategoryTreeNavigation(t *testing.T) {
	gdb := setupTestDB(t, "category-tree")
	svc := NewCategoryService(gdb)
	root, mid, leaf := buildCategoryTree(t, svc)

	children, err := svc.Children(root.ID)
	if err != nil {
		t.Fatalf("children failed: %v", err)
	}
	if len(children) != 1 || children[0].ID != mid.ID {
		t.Fatalf("expected root's only child to be mid, got %+v", children)
	}

	ancestors, err := svc.Ancestors(leaf.ID)
	if err != nil {
		t.Fatalf("ancestors failed: %v", err)
	}
	if len(ancestors) != 2 || ancestors[0].ID != mid.ID || ancestors[1].ID != root.ID {
		t.Fatalf("expected ancestors [mid, root], got %+v", ancestors)
	}

	if _, err := svc.Ancestors(9999); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCategoryCreateValidation(t *testing.T) {
	gdb := setupTestDB(t, "category-validate")
	svc := NewCategoryService(gdb)

	if _, err := svc.Create(CategoryInput{Name: "X", Slug: ""}); !errors.Is(err, ErrMissingCategory) {
		t.Fatalf("expected ErrMissingCategory, got %v", err)
	}
	missing := uint(9999)
	if _, err := svc.Create(CategoryInput{Name: "X", Slug: "x", ParentID: &missing}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound for missing parent, got %v", err)
	}

	if _, err := svc.Create(CategoryInput{Name: "Tech", Slug: "tech"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Create(CategoryInput{Name: "Tech", Slug: "tech-2"}); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists for duplicate name, got %v", err)
	}
}

func TestCategoryMoveRejectsCycles(t *testing.T) {
	gdb := setupTestDB(t, "category-move")
	svc := NewCategoryService(gdb)
	root, mid, leaf := buildCategoryTree(t, svc)

	if err := svc.Move(root.ID, &leaf.ID); !errors.Is(err, ErrCategoryCycle) {
		t.Fatalf("expected ErrCategoryCycle moving root under leaf, got %v", err)
	}
	if err := svc.Move(mid.ID, &mid.ID); !errors.Is(err, ErrCategoryCycle) {
		t.Fatalf("expected ErrCategoryCycle moving a category under itself, got %v", err)
	}

	// Flattening the leaf to root level is a legal move.
	if err := svc.Move(leaf.ID, nil); err != nil {
		t.Fatalf("move to root level failed: %v", err)
	}
	ancestors, err := svc.Ancestors(leaf.ID)
	if err != nil {
		t.Fatalf("ancestors failed: %v", err)
	}
	if len(ancestors) != 0 {
		t.Fatalf("expected no ancestors after flatten, got %d", len(ancestors))
	}
}

func TestCategoryDeleteRemovesSubtree(t *testing.T) {
	gdb := setupTestDB(t, "category-delete")
	svc := NewCategoryService(gdb)
	root, mid, leaf := buildCategoryTree(t, svc)

	other, err := svc.Create(CategoryInput{Name: "Life", Slug: "life"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(mid.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	for _, id := range []uint{mid.ID, leaf.ID} {
		if _, err := svc.Get(id); !errors.Is(err, ErrCategoryNotFound) {
			t.Fatalf("expected category %d gone, got %v", id, err)
		}
	}
	for _, id := range []uint{root.ID, other.ID} {
		if _, err := svc.Get(id); err != nil {
			t.Fatalf("category %d should survive: %v", id, err)
		}
	}
}
