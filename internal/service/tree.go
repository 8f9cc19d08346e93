package service

import (
	"context"
	"log/slog"

	"notielf/internal/domain"
	"notielf/internal/domain/models"
	"notielf/internal/domain/repositories"
)

// TreeService serves the caller's document tree and related typed reads.
type TreeService struct {
	hierarchy repositories.HierarchyRepository
	documents repositories.DocumentRepository
	logger    *slog.Logger
}

// NewTreeService creates a tree service.
func NewTreeService(hierarchy repositories.HierarchyRepository, documents repositories.DocumentRepository, logger *slog.Logger) *TreeService {
	return &TreeService{hierarchy: hierarchy, documents: documents, logger: logger}
}

// FolderHierarchy returns the caller's full folder tree as flat rows. A
// caller with no root folder gets a not-found error, distinct from an
// empty-but-valid tree whose root simply has no children.
func (s *TreeService) FolderHierarchy(ctx context.Context, ident *models.Identity) ([]models.HierarchyFolder, error) {
	folders, err := s.hierarchy.FolderHierarchy(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	if len(folders) == 0 {
		return nil, &domain.NotFoundError{Message: "no documents found"}
	}
	return folders, nil
}

// UserDocuments lists the caller's documents with their per-user placement.
func (s *TreeService) UserDocuments(ctx context.Context, ident *models.Identity) ([]models.UserDocument, error) {
	return s.documents.UserDocuments(ctx, ident.UserID)
}
