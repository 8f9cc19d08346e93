package httputil

import (
	"context"
	"net/http"

	"notielf/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	identityKey  contextKey = "identity"
	requestIDKey contextKey = "requestID"
)

// WithIdentity adds the authenticated caller identity to the request context
func WithIdentity(r *http.Request, ident *models.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityKey, ident)
	return r.WithContext(ctx)
}

// GetIdentity retrieves the caller identity from context, nil if not set
func GetIdentity(r *http.Request) *models.Identity {
	ident, _ := r.Context().Value(identityKey).(*models.Identity)
	return ident
}

// IdentityFromContext retrieves the caller identity from a bare context.
// Used by hooks and services that receive a context rather than a request.
func IdentityFromContext(ctx context.Context) *models.Identity {
	ident, _ := ctx.Value(identityKey).(*models.Identity)
	return ident
}

// WithRequestID adds a request ID to the request context
func WithRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDKey, id)
	return r.WithContext(ctx)
}

// GetRequestID retrieves the request ID from context, empty if not set
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
