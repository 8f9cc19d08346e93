package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"notielf/internal/domain"
	"notielf/internal/domain/models"
	"notielf/internal/domain/repositories"
)

// InviteRepository implements invite persistence over pgx.
type InviteRepository struct {
	config RepositoryConfig
	logger *slog.Logger
}

// NewInviteRepository creates an invite repository.
func NewInviteRepository(config RepositoryConfig) *InviteRepository {
	return &InviteRepository{config: config, logger: config.Logger}
}

func (r *InviteRepository) PendingForEmail(ctx context.Context, email string) ([]models.Invite, error) {
	exec := GetExecutor(ctx, r.config.Pool)

	query := fmt.Sprintf(`
		SELECT i.id, i.to_email, i.from_id, i.from_name, i.from_email,
		       i.document_id, i.folder_id, i.reason, i.status,
		       d.title, i.created_at, i.updated_at
		FROM %s i
		JOIN %s d ON d.id = i.document_id
		WHERE i.to_email = $1 AND i.status = $2
		ORDER BY i.created_at DESC`,
		r.config.Tables.Invites, r.config.Tables.Documents,
	)

	rows, err := exec.Query(ctx, query, email, models.InviteStatusSent)
	if err != nil {
		r.logger.Error("invite lookup failed", "email", email, "error", err)
		return nil, &domain.DatabaseError{Message: "failed to fetch invites", Err: err}
	}
	defer rows.Close()

	invites := make([]models.Invite, 0)
	for rows.Next() {
		var inv models.Invite
		if err := rows.Scan(
			&inv.ID, &inv.ToEmail, &inv.FromID, &inv.FromName, &inv.FromEmail,
			&inv.DocumentID, &inv.FolderID, &inv.Reason, &inv.Status,
			&inv.DocumentTitle, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, &domain.DatabaseError{Message: "failed to scan invite row", Err: err}
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.DatabaseError{Message: "failed to read invite rows", Err: err}
	}

	return invites, nil
}

func (r *InviteRepository) GetForUpdate(ctx context.Context, id int64) (*models.Invite, error) {
	exec := GetExecutor(ctx, r.config.Pool)

	query := fmt.Sprintf(`
		SELECT id, to_email, from_id, from_name, from_email,
		       document_id, folder_id, reason, status, created_at, updated_at
		FROM %s
		WHERE id = $1
		FOR UPDATE`,
		r.config.Tables.Invites,
	)

	var inv models.Invite
	err := exec.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.ToEmail, &inv.FromID, &inv.FromName, &inv.FromEmail,
		&inv.DocumentID, &inv.FolderID, &inv.Reason, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("invite %d not found", id)}
		}
		r.logger.Error("invite fetch failed", "invite_id", id, "error", err)
		return nil, &domain.DatabaseError{Message: "failed to fetch invite", Err: err}
	}

	return &inv, nil
}

func (r *InviteRepository) SetStatus(ctx context.Context, id int64, status models.InviteStatus) error {
	exec := GetExecutor(ctx, r.config.Pool)

	query := fmt.Sprintf("UPDATE %s SET status = $1 WHERE id = $2", r.config.Tables.Invites)
	tag, err := exec.Exec(ctx, query, status, id)
	if err != nil {
		r.logger.Error("invite status update failed", "invite_id", id, "status", status, "error", err)
		return &domain.DatabaseError{Message: "failed to update invite", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("invite %d not found", id)}
	}

	return nil
}

func (r *InviteRepository) CreateOwnership(ctx context.Context, grant models.OwnershipGrant) error {
	exec := GetExecutor(ctx, r.config.Pool)

	query := fmt.Sprintf(
		"INSERT INTO %s (document_id, owner_id, folder_id, readonly) VALUES ($1, $2, $3, $4)",
		r.config.Tables.DocumentOwnership,
	)
	if _, err := exec.Exec(ctx, query, grant.DocumentID, grant.OwnerID, grant.FolderID, grant.Readonly); err != nil {
		if IsPgForeignKeyError(err) {
			return &domain.ValidationError{Message: "shared document no longer exists"}
		}
		r.logger.Error("ownership grant failed", "document_id", grant.DocumentID, "error", err)
		return &domain.DatabaseError{Message: "failed to create document ownership", Err: err}
	}

	return nil
}

var _ repositories.InviteRepository = (*InviteRepository)(nil)
