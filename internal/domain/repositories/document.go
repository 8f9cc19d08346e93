package repositories

import (
	"context"

	"notielf/internal/domain/models"
)

// DocumentRepository serves typed document reads that the generic resource
// dispatcher cannot express (joins across placement tables).
type DocumentRepository interface {
	// UserDocuments lists the user's documents joined with their per-user
	// placement records.
	UserDocuments(ctx context.Context, userID string) ([]models.UserDocument, error)
}
