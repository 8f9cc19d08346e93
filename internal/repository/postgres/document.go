package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"notielf/internal/domain"
	"notielf/internal/domain/models"
	"notielf/internal/domain/repositories"
)

// DocumentRepository implements typed document reads over pgx.
type DocumentRepository struct {
	config RepositoryConfig
	logger *slog.Logger
}

// NewDocumentRepository creates a document repository.
func NewDocumentRepository(config RepositoryConfig) *DocumentRepository {
	return &DocumentRepository{config: config, logger: config.Logger}
}

func (r *DocumentRepository) UserDocuments(ctx context.Context, userID string) ([]models.UserDocument, error) {
	exec := GetExecutor(ctx, r.config.Pool)

	query := fmt.Sprintf(`
		SELECT d.id, d.title, d.type, d.content, d.readonly,
		       ud.folder_id, d.created_at, d.updated_at
		FROM %s ud
		JOIN %s d ON d.id = ud.document_id
		WHERE ud.user_id = $1
		ORDER BY d.id`,
		r.config.Tables.UserDocuments, r.config.Tables.Documents,
	)

	rows, err := exec.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("user documents query failed", "user_id", userID, "error", err)
		return nil, &domain.DatabaseError{Message: "failed to fetch user documents", Err: err}
	}
	defer rows.Close()

	docs := make([]models.UserDocument, 0)
	for rows.Next() {
		var doc models.UserDocument
		if err := rows.Scan(
			&doc.ID, &doc.Title, &doc.Type, &doc.Content, &doc.Readonly,
			&doc.FolderID, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, &domain.DatabaseError{Message: "failed to scan document row", Err: err}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.DatabaseError{Message: "failed to read document rows", Err: err}
	}

	return docs, nil
}

var _ repositories.DocumentRepository = (*DocumentRepository)(nil)
