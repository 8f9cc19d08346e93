package service

import (
	"context"
	"fmt"
	"log/slog"

	"notielf/internal/domain"
	"notielf/internal/domain/models"
	"notielf/internal/domain/repositories"
)

// InviteService owns the invite lifecycle: listing pending invites for a
// recipient and consuming them. Accept and decline run in one transaction
// so the status transition and the ownership grant commit or roll back
// together, and the row lock taken by the read serializes concurrent
// consumers of the same invite.
type InviteService struct {
	invites repositories.InviteRepository
	tx      repositories.TransactionManager
	logger  *slog.Logger
}

// NewInviteService creates an invite service.
func NewInviteService(invites repositories.InviteRepository, tx repositories.TransactionManager, logger *slog.Logger) *InviteService {
	return &InviteService{invites: invites, tx: tx, logger: logger}
}

// PendingForEmail lists sent invites addressed to the caller. A caller may
// only read their own inbox; asking for another email is refused.
func (s *InviteService) PendingForEmail(ctx context.Context, ident *models.Identity, email string) ([]models.Invite, error) {
	if email == "" {
		email = ident.Email
	}
	if email != ident.Email {
		return nil, &domain.ForbiddenError{Message: "cannot read invites for another email"}
	}

	return s.invites.PendingForEmail(ctx, email)
}

// Accept consumes a sent invite: status moves to accepted and the recipient
// gets a read-only ownership row placing the shared document in the folder
// the sender chose.
func (s *InviteService) Accept(ctx context.Context, ident *models.Identity, inviteID int64) (*models.Invite, error) {
	return s.consume(ctx, ident, inviteID, models.InviteStatusAccepted)
}

// Decline consumes a sent invite without granting anything.
func (s *InviteService) Decline(ctx context.Context, ident *models.Identity, inviteID int64) (*models.Invite, error) {
	return s.consume(ctx, ident, inviteID, models.InviteStatusDeclined)
}

func (s *InviteService) consume(ctx context.Context, ident *models.Identity, inviteID int64, to models.InviteStatus) (*models.Invite, error) {
	var result *models.Invite

	err := s.tx.ExecTx(ctx, func(txCtx context.Context) error {
		inv, err := s.invites.GetForUpdate(txCtx, inviteID)
		if err != nil {
			return err
		}
		if inv.ToEmail != ident.Email {
			return &domain.ForbiddenError{Message: "invite is addressed to someone else"}
		}
		if inv.Status.Terminal() {
			return &domain.ConflictError{Message: fmt.Sprintf("invite already %s", inv.Status)}
		}

		if err := s.invites.SetStatus(txCtx, inviteID, to); err != nil {
			return err
		}

		if to == models.InviteStatusAccepted {
			grant := models.OwnershipGrant{
				DocumentID: inv.DocumentID,
				OwnerID:    ident.UserID,
				FolderID:   inv.FolderID,
				Readonly:   true,
			}
			if err := s.invites.CreateOwnership(txCtx, grant); err != nil {
				return err
			}
		}

		inv.Status = to
		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invite consumed", "invite_id", inviteID, "status", to, "user_id", ident.UserID)
	return result, nil
}
