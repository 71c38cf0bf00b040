package db

import (
	"database/sql"
	"fmt"
)

// migrate applies database migrations for existing databases
func (db *DB) migrate() error {
	// Migration 1: enforce mapping uniqueness at the schema level for
	// databases written before the idempotent-tagging checks existed
	if err := db.migration001UniqueMappingIndex(); err != nil {
		return fmt.Errorf("migration 001: %w", err)
	}

	return nil
}

// migration001UniqueMappingIndex deduplicates session/category mappings and
// adds a unique index over the pair
func (db *DB) migration001UniqueMappingIndex() error {
	var indexName string
	err := db.conn.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='index' AND name='idx_session_categories_unique'
	`).Scan(&indexName)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return err
	}

	// Keep the oldest row of each duplicated pair before creating the index
	_, err = db.conn.Exec(`
		DELETE FROM session_categories
		WHERE id NOT IN (
			SELECT MIN(id) FROM session_categories
			GROUP BY session_id, category_id
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_session_categories_unique
		ON session_categories(session_id, category_id);
	`)
	return err
}
