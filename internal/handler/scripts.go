package handler

import (
	"context"
	"log/slog"
	"net/http"

	"notielf/internal/domain/models"
	"notielf/internal/httputil"
)

// InviteReader is the invite surface the script endpoints consume.
type InviteReader interface {
	PendingForEmail(ctx context.Context, ident *models.Identity, email string) ([]models.Invite, error)
}

// HierarchyReader is the folder-tree surface the script endpoints consume.
type HierarchyReader interface {
	FolderHierarchy(ctx context.Context, ident *models.Identity) ([]models.HierarchyFolder, error)
}

// ScriptsHandler serves the standalone script endpoints that predate the
// generic dispatcher. They duplicate dispatcher reads under fixed paths
// with the same JSON shapes, kept for frontend compatibility.
type ScriptsHandler struct {
	invites InviteReader
	trees   HierarchyReader
	logger  *slog.Logger
}

// NewScriptsHandler creates the script endpoint handler.
func NewScriptsHandler(invites InviteReader, trees HierarchyReader, logger *slog.Logger) *ScriptsHandler {
	return &ScriptsHandler{invites: invites, trees: trees, logger: logger}
}

// RegisterRoutes mounts the script endpoints on the mux.
func (h *ScriptsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /getinvites.php", h.GetInvites)
	mux.HandleFunc("GET /userdocs.php", h.UserDocs)
}

// GetInvites lists pending invites for the caller. The email query
// parameter is accepted for compatibility but must match the caller.
func (h *ScriptsHandler) GetInvites(w http.ResponseWriter, r *http.Request) {
	ident := httputil.GetIdentity(r)
	if ident == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	invites, err := h.invites.PendingForEmail(r.Context(), ident, r.URL.Query().Get("email"))
	if err != nil {
		httputil.HandleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, invites)
}

// UserDocs serves the caller's full folder tree as flat rows with children
// arrays, the same shape as the hierarchy resource.
func (h *ScriptsHandler) UserDocs(w http.ResponseWriter, r *http.Request) {
	ident := httputil.GetIdentity(r)
	if ident == nil {
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
		return
	}

	folders, err := h.trees.FolderHierarchy(r.Context(), ident)
	if err != nil {
		httputil.HandleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}
