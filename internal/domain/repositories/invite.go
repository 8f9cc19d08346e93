package repositories

import (
	"context"

	"notielf/internal/domain/models"
)

// InviteRepository persists the invite lifecycle. The mutating methods are
// meant to run inside a transaction started by the service.
type InviteRepository interface {
	// PendingForEmail lists sent invites addressed to the email, joined
	// with the shared document's title.
	PendingForEmail(ctx context.Context, email string) ([]models.Invite, error)

	// GetForUpdate fetches one invite with a row lock so that concurrent
	// accepts of the same invite serialize.
	GetForUpdate(ctx context.Context, id int64) (*models.Invite, error)

	// SetStatus transitions the invite's lifecycle state.
	SetStatus(ctx context.Context, id int64, status models.InviteStatus) error

	// CreateOwnership inserts the placement row an accepted invite grants.
	CreateOwnership(ctx context.Context, grant models.OwnershipGrant) error
}
