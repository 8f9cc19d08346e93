package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"notielf/internal/domain"
	"notielf/internal/domain/models"
	"notielf/internal/domain/repositories"
)

// HierarchyRepository implements the recursive folder-tree read over pgx.
type HierarchyRepository struct {
	config RepositoryConfig
	logger *slog.Logger
	query  string
}

// NewHierarchyRepository creates a hierarchy repository.
func NewHierarchyRepository(config RepositoryConfig) *HierarchyRepository {
	return &HierarchyRepository{
		config: config,
		logger: config.Logger,
		query:  buildHierarchyQuery(config.Tables),
	}
}

// buildHierarchyQuery assembles the recursive CTE once at construction. The
// anchor is the owner's root folder (parent_id IS NULL); the recursive term
// walks child folders. Each output row aggregates the documents placed
// directly in that folder through the ownership table, as a JSON array so
// the whole tree is one round trip.
func buildHierarchyQuery(t *TableNames) string {
	return fmt.Sprintf(`
		WITH RECURSIVE folder_tree AS (
			SELECT f.id, f.name, f.owner_id, f.parent_id, f.created_at, f.updated_at, TRUE AS is_root
			FROM %[1]s f
			WHERE f.parent_id IS NULL AND f.owner_id = $1
			UNION ALL
			SELECT c.id, c.name, c.owner_id, c.parent_id, c.created_at, c.updated_at, FALSE
			FROM %[1]s c
			JOIN folder_tree ft ON c.parent_id = ft.id
		)
		SELECT
			ft.id,
			ft.name,
			ft.parent_id,
			ft.owner_id,
			ft.is_root,
			ft.created_at,
			ft.updated_at,
			COALESCE((
				SELECT json_agg(json_build_object(
					'id', d.id,
					'name', d.title,
					'type', d.type,
					'content', d.content,
					'owner', d.owner_id,
					'readonly', o.readonly
				) ORDER BY d.id)
				FROM %[2]s o
				JOIN %[3]s d ON d.id = o.document_id
				WHERE o.folder_id = ft.id AND o.owner_id = $1
			), '[]') AS children
		FROM folder_tree ft
		ORDER BY ft.parent_id NULLS FIRST, ft.id`,
		t.Folders, t.DocumentOwnership, t.Documents,
	)
}

func (r *HierarchyRepository) FolderHierarchy(ctx context.Context, ownerID string) ([]models.HierarchyFolder, error) {
	exec := GetExecutor(ctx, r.config.Pool)

	rows, err := exec.Query(ctx, r.query, ownerID)
	if err != nil {
		r.logger.Error("hierarchy query failed", "owner_id", ownerID, "error", err)
		return nil, &domain.DatabaseError{Message: "failed to fetch folder hierarchy", Err: err}
	}
	defer rows.Close()

	var folders []models.HierarchyFolder
	for rows.Next() {
		var (
			folder   models.HierarchyFolder
			children []byte
		)
		if err := rows.Scan(
			&folder.ID,
			&folder.Name,
			&folder.ParentID,
			&folder.Owner,
			&folder.IsRoot,
			&folder.CreatedAt,
			&folder.UpdatedAt,
			&children,
		); err != nil {
			return nil, &domain.DatabaseError{Message: "failed to scan folder row", Err: err}
		}
		folder.Type = "folder"
		if err := json.Unmarshal(children, &folder.Children); err != nil {
			return nil, &domain.DatabaseError{Message: "failed to decode folder children", Err: err}
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.DatabaseError{Message: "failed to read folder rows", Err: err}
	}

	return folders, nil
}

var _ repositories.HierarchyRepository = (*HierarchyRepository)(nil)
