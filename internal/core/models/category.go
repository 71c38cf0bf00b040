package models

import "time"

// Category is a user-defined label that sessions can be tagged with.
// Titles are unique case-insensitively.
type Category struct {
	ID         int64     `json:"id" yaml:"id"`
	Title      string    `json:"title" yaml:"title"`
	CreateDate time.Time `json:"create_date" yaml:"create_date"`
}

// Screenshot is a captured image tied to the session that was open when it
// was taken. Data holds the encoded JPEG bytes.
type Screenshot struct {
	ID         int64     `json:"id" yaml:"id"`
	SessionID  int64     `json:"session_id" yaml:"session_id"`
	CreateDate time.Time `json:"create_date" yaml:"create_date"`
	Data       []byte    `json:"-" yaml:"-"`
}
