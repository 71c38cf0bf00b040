package db

func (db *DB) initSchema() error {
	schema := `
	-- Activity sessions: one row per focused application/window interval.
	-- end_time is NULL while the session is open.
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		application_title TEXT NOT NULL,
		window_title TEXT,
		start_time DATETIME NOT NULL,
		end_time DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions(start_time);
	CREATE INDEX IF NOT EXISTS idx_sessions_application_title ON sessions(application_title);

	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		create_date DATETIME NOT NULL
	);

	-- Many-to-many session/category mapping. Deliberately no foreign keys:
	-- deletes clean these rows up explicitly.
	CREATE TABLE IF NOT EXISTS session_categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		category_id INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_session_categories_session_id ON session_categories(session_id);
	CREATE INDEX IF NOT EXISTS idx_session_categories_category_id ON session_categories(category_id);

	CREATE TABLE IF NOT EXISTS screenshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id INTEGER NOT NULL,
		create_date DATETIME NOT NULL,
		data BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_screenshots_session_id ON screenshots(session_id);
	`

	_, err := db.conn.Exec(schema)
	return err
}
