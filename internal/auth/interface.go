package auth

import "notielf/internal/domain/models"

// TokenVerifier validates bearer tokens issued by the external identity
// provider and extracts their claims. The provider itself is a black box;
// only its JWKS endpoint is consumed.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*models.Claims, error)
	Close() error
}
