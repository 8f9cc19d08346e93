package middleware

import (
	"net/http"

	"notielf/internal/httputil"

	"github.com/google/uuid"
)

// RequestIDHeader is echoed back so clients can correlate failures with logs.
const RequestIDHeader = "X-Request-Id"

// RequestID assigns each request a unique ID, stores it in the context for
// log correlation and echoes it in the response headers. An incoming ID from
// a trusted proxy is reused.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, httputil.WithRequestID(r, id))
		})
	}
}
