package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"notielf/internal/domain"
	"notielf/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier implements TokenVerifier using the identity provider's JWKS
// endpoint. Keys are cached and refreshed based on HTTP cache headers.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from the
// identity provider's JWKS endpoint.
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (TokenVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	// keyfunc v3 handles caching and refresh based on HTTP cache headers
	ctx := context.Background()
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("token verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{
		jwks:   jwks,
		logger: logger,
	}, nil
}

// VerifyToken validates a JWT and extracts its claims.
// Returns ErrUnauthorized if the token is invalid, expired, or malformed.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, v.jwks.Keyfunc)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	// Prevent algorithm confusion attacks - allow only RS256 or ES256
	switch token.Method.Alg() {
	case "RS256", "ES256":
		// allowed
	default:
		v.logger.Warn("token uses unexpected algorithm", "algorithm", token.Method.Alg())
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	// The subject claim is the user ID; a token without one is useless here
	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}

	// Reject anonymous tokens
	if claims.Role != "authenticated" {
		v.logger.Debug("token has invalid role", "role", claims.Role, "user_id", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close releases resources held by the verifier. keyfunc v3 manages its own
// refresh lifecycle, so this is a no-op kept for shutdown symmetry.
func (v *JWKSVerifier) Close() error {
	v.logger.Info("token verifier closed")
	return nil
}
