package middleware

import (
	"net/http"
	"strings"

	"notielf/internal/auth"
	"notielf/internal/domain/models"
	"notielf/internal/httputil"
)

// TenantHeader carries the application/tenant identifier on every request.
const TenantHeader = "App_id"

// Auth validates the bearer token and tenant header, and stores the caller
// identity in the request context. The health endpoint is exempt; CORS
// pre-flight requests pass through because the cors handler answers them
// before this middleware runs.
func Auth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
				return
			}

			tenant := r.Header.Get(TenantHeader)
			if tenant == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
				return
			}

			ident := &models.Identity{
				UserID: claims.GetUserID(),
				Email:  claims.Email,
				Tenant: tenant,
			}

			next.ServeHTTP(w, httputil.WithIdentity(r, ident))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
