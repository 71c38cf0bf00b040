package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/wkallhof/activity-tracker/internal/core/models"
)

// OpenSession records the start of a new activity session and returns it
// with its store-assigned identity.
func (db *DB) OpenSession(applicationTitle, windowTitle string) (*models.Session, error) {
	session := &models.Session{
		ApplicationTitle: applicationTitle,
		WindowTitle:      windowTitle,
		StartTime:        time.Now().UTC(),
	}
	if err := session.Validate(); err != nil {
		return nil, &ValidationError{Field: "application_title"}
	}

	result, err := db.conn.Exec(`
		INSERT INTO sessions (application_title, window_title, start_time)
		VALUES (?, ?, ?)
	`, session.ApplicationTitle, session.WindowTitle, session.StartTime)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get session id: %w", err)
	}
	session.ID = id

	return session, nil
}

// CloseSession stamps the session's end time and persists the update.
func (db *DB) CloseSession(session *models.Session) (*models.Session, error) {
	if session == nil || session.ID == 0 {
		return nil, &ValidationError{Field: "session id"}
	}

	end := time.Now().UTC()
	session.EndTime = &end

	if err := db.UpdateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateSession persists all mutable fields of an existing session.
func (db *DB) UpdateSession(session *models.Session) error {
	if session == nil || session.ID == 0 {
		return &ValidationError{Field: "session id"}
	}

	var end interface{}
	if session.EndTime != nil {
		end = session.EndTime.UTC()
	}

	_, err := db.conn.Exec(`
		UPDATE sessions
		SET application_title = ?, window_title = ?, start_time = ?, end_time = ?
		WHERE id = ?
	`, session.ApplicationTitle, session.WindowTitle, session.StartTime.UTC(), end, session.ID)
	if err != nil {
		return fmt.Errorf("failed to update session %d: %w", session.ID, err)
	}
	return nil
}

// CountSessions returns the total number of recorded sessions.
func (db *DB) CountSessions() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// DeleteSessions removes the given sessions along with any category
// mappings that reference them. No-op on empty input.
func (db *DB) DeleteSessions(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM sessions WHERE id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	// No cascade on the mapping table; clean it up ourselves
	if _, err := tx.Exec(`DELETE FROM session_categories WHERE session_id IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("failed to delete session category mappings: %w", err)
	}

	return tx.Commit()
}

// SearchSessions returns sessions matching the request, each carrying its
// resolved category titles, ordered by start time ascending.
//
// The text filter is a case-insensitive substring match against either
// title; empty text matches everything. Absent date bounds impose no
// constraint.
func (db *DB) SearchSessions(req models.SearchRequest) ([]models.Session, error) {
	query := `
		SELECT s.id, s.application_title, s.window_title, s.start_time, s.end_time, c.title
		FROM sessions s
			LEFT JOIN session_categories m ON m.session_id = s.id
			LEFT JOIN categories c ON c.id = m.category_id`

	var conds []string
	var args []interface{}

	if req.Text != "" {
		conds = append(conds, "(s.application_title LIKE ? OR s.window_title LIKE ?)")
		pattern := "%" + req.Text + "%"
		args = append(args, pattern, pattern)
	}
	if req.HasStart {
		conds = append(conds, "s.start_time >= ?")
		args = append(args, req.Start.UTC())
	}
	if req.HasEnd {
		conds = append(conds, "s.start_time <= ?")
		args = append(args, req.End.UTC())
	}

	if len(conds) > 0 {
		query += "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}
	query += "\n\t\tORDER BY s.start_time ASC"

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var joined []joinRow[string]
	for rows.Next() {
		var s models.Session
		var window sql.NullString
		var end sql.NullTime
		var title sql.NullString
		if err := rows.Scan(&s.ID, &s.ApplicationTitle, &window, &s.StartTime, &end, &title); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		s.WindowTitle = window.String
		if end.Valid {
			t := end.Time
			s.EndTime = &t
		}
		row := joinRow[string]{session: s}
		if title.Valid {
			t := title.String
			row.child = &t
		}
		joined = append(joined, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating search rows: %w", err)
	}

	return aggregateSessions(joined, func(s *models.Session, title string) {
		// Outer join yields an empty title for unmapped sessions
		if title != "" {
			s.Categories = append(s.Categories, title)
		}
	}), nil
}

// SessionsWithScreenshots returns every session joined against its
// screenshots, ordered by start time ascending. Sessions without
// screenshots are included with an empty collection.
func (db *DB) SessionsWithScreenshots() ([]models.Session, error) {
	rows, err := db.conn.Query(`
		SELECT s.id, s.application_title, s.window_title, s.start_time, s.end_time,
			sc.id, sc.session_id, sc.create_date, sc.data
		FROM sessions s
			LEFT JOIN screenshots sc ON sc.session_id = s.id
		ORDER BY s.start_time ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("screenshot join query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var joined []joinRow[models.Screenshot]
	for rows.Next() {
		var s models.Session
		var window sql.NullString
		var end sql.NullTime
		var scID, scSessionID sql.NullInt64
		var scCreated sql.NullTime
		var scData []byte
		if err := rows.Scan(&s.ID, &s.ApplicationTitle, &window, &s.StartTime, &end,
			&scID, &scSessionID, &scCreated, &scData); err != nil {
			return nil, fmt.Errorf("failed to scan screenshot row: %w", err)
		}
		s.WindowTitle = window.String
		if end.Valid {
			t := end.Time
			s.EndTime = &t
		}
		row := joinRow[models.Screenshot]{session: s}
		if scID.Valid {
			row.child = &models.Screenshot{
				ID:         scID.Int64,
				SessionID:  scSessionID.Int64,
				CreateDate: scCreated.Time,
				Data:       scData,
			}
		}
		joined = append(joined, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating screenshot rows: %w", err)
	}

	return aggregateSessions(joined, func(s *models.Session, shot models.Screenshot) {
		s.Screenshots = append(s.Screenshots, shot)
	}), nil
}
