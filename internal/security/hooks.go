package security

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/jackc/pgx/v5/pgxpool"

	"notielf/internal/domain"
	"notielf/internal/domain/models"
	"notielf/internal/repository/postgres"
	"notielf/internal/resource"
)

// Hooks implements the row-level authorization hooks the resource config
// references by name. Scope hooks constrain reads and mutations to the
// caller's rows; stamp hooks force ownership columns on writes so a client
// can never create rows on someone else's behalf.
type Hooks struct {
	pool   *pgxpool.Pool
	tables *postgres.TableNames
	logger *slog.Logger
}

// NewHooks creates the hook set.
func NewHooks(pool *pgxpool.Pool, tables *postgres.TableNames, logger *slog.Logger) *Hooks {
	return &Hooks{pool: pool, tables: tables, logger: logger}
}

// Register binds every hook under the name the resource config uses.
func (h *Hooks) Register(reg *resource.Registry) {
	reg.RegisterSelectHook("scopeOwner", h.ScopeOwner)
	reg.RegisterSelectHook("scopeUser", h.ScopeUser)
	reg.RegisterSelectHook("scopeInviteSender", h.ScopeInviteSender)
	reg.RegisterCreateHook("stampOwner", h.StampOwner)
	reg.RegisterCreateHook("stampUser", h.StampUser)
	reg.RegisterCreateHook("stampInviteSender", h.StampInviteSender)
	reg.RegisterAfterCreateHook("linkDocumentToFolder", h.LinkDocumentToFolder)
}

// ScopeOwner constrains the query to rows owned by the caller.
func (h *Hooks) ScopeOwner(ident *models.Identity, q *resource.Query, _ int64) error {
	q.Where["owner_id"] = ident.UserID
	return nil
}

// ScopeUser constrains the query to rows belonging to the caller by user_id.
func (h *Hooks) ScopeUser(ident *models.Identity, q *resource.Query, _ int64) error {
	q.Where["user_id"] = ident.UserID
	return nil
}

// ScopeInviteSender constrains invite rows to ones the caller sent.
// Recipient-side access goes through the invite actions, which apply their
// own guards.
func (h *Hooks) ScopeInviteSender(ident *models.Identity, q *resource.Query, _ int64) error {
	q.Where["from_id"] = ident.UserID
	return nil
}

// StampOwner forces owner_id to the caller, overwriting any client value.
func (h *Hooks) StampOwner(ident *models.Identity, payload map[string]any) error {
	payload["owner_id"] = ident.UserID
	return nil
}

// StampUser forces user_id to the caller.
func (h *Hooks) StampUser(ident *models.Identity, payload map[string]any) error {
	payload["user_id"] = ident.UserID
	return nil
}

// StampInviteSender validates a new invite and stamps the sender columns.
// Status always starts at "sent" regardless of what the client posted.
func (h *Hooks) StampInviteSender(ident *models.Identity, payload map[string]any) error {
	toEmail, _ := payload["to_email"].(string)
	if err := validation.Validate(toEmail, validation.Required, is.Email); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("to_email: %v", err)}
	}
	if _, ok := payload["document_id"].(int64); !ok {
		return &domain.ValidationError{Message: "document_id is required"}
	}

	payload["from_id"] = ident.UserID
	payload["from_email"] = ident.Email
	payload["status"] = "sent"
	return nil
}

// LinkDocumentToFolder runs after a document insert, inside the same
// transaction. When the raw body named a folder, the document is attached to
// it through an ownership row; failure rolls the document back with it.
func (h *Hooks) LinkDocumentToFolder(ctx context.Context, ident *models.Identity, raw, created map[string]any) error {
	folderID, ok := raw["folder_id"].(int64)
	if !ok || folderID <= 0 {
		return nil
	}

	docID, ok := created["id"].(int64)
	if !ok {
		return &domain.DatabaseError{Message: "created document has no id"}
	}

	exec := postgres.GetExecutor(ctx, h.pool)
	query := fmt.Sprintf(
		"INSERT INTO %s (document_id, owner_id, folder_id, readonly) VALUES ($1, $2, $3, false)",
		h.tables.DocumentOwnership,
	)
	if _, err := exec.Exec(ctx, query, docID, ident.UserID, folderID); err != nil {
		h.logger.Error("failed to link document to folder", "document_id", docID, "folder_id", folderID, "error", err)
		if postgres.IsPgForeignKeyError(err) {
			return &domain.ValidationError{Message: fmt.Sprintf("folder %d does not exist", folderID)}
		}
		return &domain.DatabaseError{Message: "failed to link document to folder", Err: err}
	}

	return nil
}
