package db

import (
	"errors"
	"testing"
)

func TestCreateCategory(t *testing.T) {
	database := newTestDB(t)

	category, err := database.CreateCategory("Work")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if category.ID == 0 {
		t.Error("Expected store-assigned id")
	}
	if category.CreateDate.IsZero() {
		t.Error("Expected create date to be stamped")
	}
}

func TestCreateCategory_DuplicateIsCaseInsensitive(t *testing.T) {
	database := newTestDB(t)

	if _, err := database.CreateCategory("Work"); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	for _, dup := range []string{"Work", "work", "WORK"} {
		_, err := database.CreateCategory(dup)
		if !errors.Is(err, ErrDuplicateCategory) {
			t.Errorf("CreateCategory(%q) = %v, want ErrDuplicateCategory", dup, err)
		}
	}
}

func TestCreateCategory_RequiresTitle(t *testing.T) {
	database := newTestDB(t)

	for _, title := range []string{"", "   "} {
		_, err := database.CreateCategory(title)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("CreateCategory(%q) = %v, want ValidationError", title, err)
		}
	}
}

func TestListCategories(t *testing.T) {
	database := newTestDB(t)

	categories, err := database.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("Expected empty store, got %d categories", len(categories))
	}

	mustCreateCategory(t, database, "Work")
	mustCreateCategory(t, database, "Research")

	categories, err = database.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(categories))
	}
	if categories[0].Title != "Work" || categories[1].Title != "Research" {
		t.Errorf("Unexpected category order: %v", categories)
	}
}

func TestDeleteCategory(t *testing.T) {
	database := newTestDB(t)

	session := mustOpen(t, database, "Safari", "")
	work := mustCreateCategory(t, database, "Work")

	if err := database.TagSession(session.ID, work.ID); err != nil {
		t.Fatalf("TagSession() error = %v", err)
	}

	if err := database.DeleteCategory(work.ID); err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}

	categories, err := database.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("Expected category to be deleted, got %v", categories)
	}

	var mappings int
	err = database.conn.QueryRow(`SELECT COUNT(*) FROM session_categories WHERE category_id = ?`, work.ID).Scan(&mappings)
	if err != nil {
		t.Fatalf("Failed to count mappings: %v", err)
	}
	if mappings != 0 {
		t.Errorf("Expected mappings to be deleted, found %d", mappings)
	}
}

func TestTagSession_Idempotent(t *testing.T) {
	database := newTestDB(t)

	session := mustOpen(t, database, "Safari", "")
	work := mustCreateCategory(t, database, "Work")

	for i := 0; i < 3; i++ {
		if err := database.TagSession(session.ID, work.ID); err != nil {
			t.Fatalf("TagSession() attempt %d error = %v", i+1, err)
		}
	}

	var mappings int
	err := database.conn.QueryRow(`SELECT COUNT(*) FROM session_categories`).Scan(&mappings)
	if err != nil {
		t.Fatalf("Failed to count mappings: %v", err)
	}
	if mappings != 1 {
		t.Errorf("Expected exactly 1 mapping, got %d", mappings)
	}
}

func TestTagSessions_SkipsAlreadyTagged(t *testing.T) {
	database := newTestDB(t)

	s1 := mustOpen(t, database, "Safari", "")
	s2 := mustOpen(t, database, "Terminal", "")
	s3 := mustOpen(t, database, "Mail", "")
	work := mustCreateCategory(t, database, "Work")

	if err := database.TagSession(s2.ID, work.ID); err != nil {
		t.Fatalf("TagSession() error = %v", err)
	}

	// Batch includes an already-tagged session and a duplicate id
	if err := database.TagSessions([]int64{s1.ID, s2.ID, s3.ID, s3.ID}, work.ID); err != nil {
		t.Fatalf("TagSessions() error = %v", err)
	}

	var mappings int
	err := database.conn.QueryRow(`SELECT COUNT(*) FROM session_categories WHERE category_id = ?`, work.ID).Scan(&mappings)
	if err != nil {
		t.Fatalf("Failed to count mappings: %v", err)
	}
	if mappings != 3 {
		t.Errorf("Expected 3 mappings, got %d", mappings)
	}

	// Empty input is a no-op
	if err := database.TagSessions(nil, work.ID); err != nil {
		t.Errorf("TagSessions(nil) error = %v", err)
	}
}
