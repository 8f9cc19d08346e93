package service

import (
	"context"

	"notielf/internal/domain"
	"notielf/internal/domain/models"
	"notielf/internal/resource"
)

// RegisterActions binds the named POST actions the resource config refers
// to. Action bodies arrive as generic maps from the dispatcher with
// integral numbers already normalized to int64.
func RegisterActions(reg *resource.Registry, invites *InviteService, trees *TreeService) {
	reg.RegisterAction("getInvites", func(ctx context.Context, ident *models.Identity, body map[string]any) (any, error) {
		email, _ := body["email"].(string)
		return invites.PendingForEmail(ctx, ident, email)
	})

	reg.RegisterAction("acceptInvite", func(ctx context.Context, ident *models.Identity, body map[string]any) (any, error) {
		id, err := inviteID(body)
		if err != nil {
			return nil, err
		}
		return invites.Accept(ctx, ident, id)
	})

	reg.RegisterAction("declineInvite", func(ctx context.Context, ident *models.Identity, body map[string]any) (any, error) {
		id, err := inviteID(body)
		if err != nil {
			return nil, err
		}
		return invites.Decline(ctx, ident, id)
	})

	reg.RegisterAction("getUserDocuments", func(ctx context.Context, ident *models.Identity, _ map[string]any) (any, error) {
		return trees.UserDocuments(ctx, ident)
	})
}

// RegisterSelectFuncs binds the computed reads that replace the generic
// query builder for their resources.
func RegisterSelectFuncs(reg *resource.Registry, trees *TreeService) {
	reg.RegisterSelectFunc("folderHierarchy", func(ctx context.Context, ident *models.Identity, _ int64) (any, error) {
		return trees.FolderHierarchy(ctx, ident)
	})
}

func inviteID(body map[string]any) (int64, error) {
	id, ok := body["id"].(int64)
	if !ok || id <= 0 {
		return 0, &domain.ValidationError{Message: "missing invite id"}
	}
	return id, nil
}
