package models

import "time"

// InviteStatus is the invite lifecycle state.
type InviteStatus string

const (
	InviteStatusSent     InviteStatus = "sent"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
)

// Terminal reports whether the invite has already been consumed.
func (s InviteStatus) Terminal() bool {
	return s == InviteStatusAccepted || s == InviteStatusDeclined
}

// Invite is a document sharing offer from one user to an email address.
// Created as "sent", consumed exactly once into "accepted" or "declined"
// and then kept as history. DocumentTitle is joined in for recipient-facing
// listings and is empty elsewhere.
type Invite struct {
	ID            int64        `json:"id"`
	ToEmail       string       `json:"to_email"`
	FromID        string       `json:"from_id"`
	FromName      string       `json:"from_name"`
	FromEmail     string       `json:"from_email"`
	DocumentID    int64        `json:"document_id"`
	FolderID      *int64       `json:"folder_id"`
	Reason        string       `json:"reason"`
	Status        InviteStatus `json:"status"`
	DocumentTitle string       `json:"document_title,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// OwnershipGrant is the placement row created when an invite is accepted:
// the recipient gets the shared document, read-only, in the folder the
// sender chose.
type OwnershipGrant struct {
	DocumentID int64
	OwnerID    string
	FolderID   *int64
	Readonly   bool
}
