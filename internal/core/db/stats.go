package db

import (
	"database/sql"
	"time"
)

// Stats represents database statistics
type Stats struct {
	TotalSessions       int
	OpenSessions        int
	TotalCategories     int
	TotalScreenshots    int
	FirstActivity       time.Time
	LastActivity        time.Time
	TopApplication      string
	TopApplicationCount int
}

// GetStats returns summary statistics over the recorded activity log
func (db *DB) GetStats() (*Stats, error) {
	stats := &Stats{}

	err := db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&stats.TotalSessions)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow("SELECT COUNT(*) FROM sessions WHERE end_time IS NULL").Scan(&stats.OpenSessions)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&stats.TotalCategories)
	if err != nil {
		return nil, err
	}

	err = db.QueryRow("SELECT COUNT(*) FROM screenshots").Scan(&stats.TotalScreenshots)
	if err != nil {
		return nil, err
	}

	if stats.TotalSessions > 0 {
		var first, last sql.NullTime
		err = db.QueryRow("SELECT MIN(start_time), MAX(start_time) FROM sessions").Scan(&first, &last)
		if err != nil {
			return nil, err
		}
		if first.Valid {
			stats.FirstActivity = first.Time
		}
		if last.Valid {
			stats.LastActivity = last.Time
		}

		var topApp sql.NullString
		err = db.QueryRow(`
			SELECT application_title, COUNT(*) as count
			FROM sessions
			GROUP BY application_title
			ORDER BY count DESC
			LIMIT 1
		`).Scan(&topApp, &stats.TopApplicationCount)
		if err != nil && err != sql.ErrNoRows {
			return nil, err
		}
		if topApp.Valid {
			stats.TopApplication = topApp.String
		}
	}

	return stats, nil
}
