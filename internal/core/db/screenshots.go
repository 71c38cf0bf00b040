package db

import (
	"fmt"
	"time"

	"github.com/wkallhof/activity-tracker/internal/core/models"
)

// SaveScreenshot persists an encoded screenshot against the session it was
// captured under and returns it with its store-assigned identity.
func (db *DB) SaveScreenshot(sessionID int64, data []byte) (*models.Screenshot, error) {
	if sessionID == 0 {
		return nil, &ValidationError{Field: "session id"}
	}

	shot := &models.Screenshot{
		SessionID:  sessionID,
		CreateDate: time.Now().UTC(),
		Data:       data,
	}

	result, err := db.conn.Exec(`
		INSERT INTO screenshots (session_id, create_date, data) VALUES (?, ?, ?)
	`, shot.SessionID, shot.CreateDate, shot.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to insert screenshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get screenshot id: %w", err)
	}
	shot.ID = id

	return shot, nil
}
