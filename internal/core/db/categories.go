package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/wkallhof/activity-tracker/internal/core/models"
)

// CreateCategory persists a new category. Returns ErrDuplicateCategory when
// the title collides case-insensitively with an existing category.
func (db *DB) CreateCategory(title string) (*models.Category, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &ValidationError{Field: "title"}
	}

	var existing int
	err := db.conn.QueryRow(`
		SELECT COUNT(*) FROM categories WHERE title = ? COLLATE NOCASE
	`, title).Scan(&existing)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing category: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("%q: %w", title, ErrDuplicateCategory)
	}

	category := &models.Category{
		Title:      title,
		CreateDate: time.Now().UTC(),
	}

	result, err := db.conn.Exec(`
		INSERT INTO categories (title, create_date) VALUES (?, ?)
	`, category.Title, category.CreateDate)
	if err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category id: %w", err)
	}
	category.ID = id

	return category, nil
}

// DeleteCategory removes a category and all of its session mappings.
func (db *DB) DeleteCategory(id int64) error {
	if id == 0 {
		return &ValidationError{Field: "category id"}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM session_categories WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category mappings: %w", err)
	}

	return tx.Commit()
}

// ListCategories returns all categories in store order.
func (db *DB) ListCategories() ([]models.Category, error) {
	rows, err := db.conn.Query(`SELECT id, title, create_date FROM categories`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Title, &c.CreateDate); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// TagSession maps a session to a category. Tagging is idempotent: an
// existing mapping is left untouched and no error is returned.
func (db *DB) TagSession(sessionID, categoryID int64) error {
	if sessionID == 0 {
		return &ValidationError{Field: "session id"}
	}
	if categoryID == 0 {
		return &ValidationError{Field: "category id"}
	}

	var exists bool
	err := db.conn.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM session_categories WHERE session_id = ? AND category_id = ?)
	`, sessionID, categoryID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check existing mapping: %w", err)
	}
	if exists {
		return nil
	}

	_, err = db.conn.Exec(`
		INSERT INTO session_categories (session_id, category_id) VALUES (?, ?)
	`, sessionID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to insert mapping: %w", err)
	}
	return nil
}

// TagSessions maps a batch of sessions to a category, inserting rows only
// for sessions that are not already mapped. No-op on empty input.
func (db *DB) TagSessions(sessionIDs []int64, categoryID int64) error {
	if len(sessionIDs) == 0 {
		return nil
	}
	if categoryID == 0 {
		return &ValidationError{Field: "category id"}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sessionIDs)), ",")
	args := make([]interface{}, 0, len(sessionIDs)+1)
	for _, id := range sessionIDs {
		args = append(args, id)
	}
	args = append(args, categoryID)

	rows, err := db.conn.Query(`
		SELECT session_id FROM session_categories
		WHERE session_id IN (`+placeholders+`) AND category_id = ?
	`, args...)
	if err != nil {
		return fmt.Errorf("failed to find existing mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tagged := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan existing mapping: %w", err)
		}
		tagged[id] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating existing mappings: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range sessionIDs {
		if tagged[id] {
			continue
		}
		if _, err := tx.Exec(`
			INSERT INTO session_categories (session_id, category_id) VALUES (?, ?)
		`, id, categoryID); err != nil {
			return fmt.Errorf("failed to insert mapping for session %d: %w", id, err)
		}
		// Guard against duplicate ids in the input batch
		tagged[id] = true
	}

	return tx.Commit()
}
