package db

import (
	"os"
	"path/filepath"
	"testing"
)

// newTestDB creates a database in a temp directory, cleaned up with the test
func newTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	return database
}

func TestNew(t *testing.T) {
	// Use temp file for test DB
	tmpfile, err := os.CreateTemp("", "test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Remove(tmpfile.Name()) }()
	_ = tmpfile.Close()

	database, err := New(tmpfile.Name())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = database.Close() }()

	// Verify schema initialized
	var count int
	err = database.conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query schema: %v", err)
	}

	// Should have: sessions, categories, session_categories, screenshots
	if count < 4 {
		t.Errorf("Expected at least 4 tables, got %d", count)
	}
}

func TestNew_WALMode(t *testing.T) {
	database := newTestDB(t)

	// Verify WAL mode is enabled
	var journalMode string
	err := database.conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}

	if journalMode != "wal" {
		t.Errorf("Expected WAL mode, got %s", journalMode)
	}
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	database, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer func() { _ = database.Close() }()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Database file not created: %v", err)
	}
}

func TestMigration_UniqueMappingIndex(t *testing.T) {
	database := newTestDB(t)

	var count int
	err := database.conn.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'index' AND name = 'idx_session_categories_unique'
	`).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query indexes: %v", err)
	}

	if count != 1 {
		t.Error("Expected unique mapping index to exist after migration")
	}

	// Re-running the migration against an already-migrated database is a no-op
	if err := database.migrate(); err != nil {
		t.Errorf("Re-running migrations failed: %v", err)
	}
}
