package repositories

import (
	"context"

	"notielf/internal/domain/models"
)

// HierarchyRepository serves the recursive folder-tree read.
type HierarchyRepository interface {
	// FolderHierarchy returns every folder owned by the user as a flat
	// ordered list, each row carrying the documents placed directly in it.
	FolderHierarchy(ctx context.Context, ownerID string) ([]models.HierarchyFolder, error)
}
