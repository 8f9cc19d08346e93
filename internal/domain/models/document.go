package models

import "time"

// UserDocument is a document joined with its per-user placement record,
// as returned by the user-documents read.
type UserDocument struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Readonly  bool      `json:"readonly"`
	FolderID  *int64    `json:"folder_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
