package models

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims issued by the external identity provider.
// The provider is consumed as a black box: we only rely on the registered
// claims plus the email and role the provider attaches.
type Claims struct {
	jwt.RegisteredClaims
	Email        string                 `json:"email"`
	Role         string                 `json:"role"` // "authenticated" or "anon"
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	SessionID    string                 `json:"session_id"`
}

// GetUserID returns the user ID from the JWT subject claim.
// This is the primary identifier for the authenticated user.
func (c *Claims) GetUserID() string {
	return c.Subject
}

// Identity is the request-scoped caller identity derived from a verified
// token plus the tenant header. It is passed explicitly into hooks and
// services; nothing reads ambient global state.
type Identity struct {
	UserID string
	Email  string
	Tenant string
}
