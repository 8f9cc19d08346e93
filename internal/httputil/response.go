package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"notielf/internal/domain"
)

// ErrorEnvelope is the JSON error shape every failure produces. The
// error/message pair is the original wire contract; kind is the stable
// machine-readable discriminator layered on top of it.
type ErrorEnvelope struct {
	Error   bool   `json:"error"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RespondJSON writes a JSON response with the given status code.
// It marshals first so that an encoding failure cannot produce a partial
// body after headers have been sent.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "internal", "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// RespondError writes the error envelope with the given status and kind.
func RespondError(w http.ResponseWriter, status int, kind, message string) {
	payload, err := json.Marshal(ErrorEnvelope{
		Error:   true,
		Kind:    kind,
		Message: message,
	})
	if err != nil {
		// Fallback to plain text if JSON encoding fails
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal server error"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// HandleError maps a domain error to its HTTP status and kind and writes the
// envelope. Unknown errors become an opaque 500 so that internal details
// never leak to the client.
func HandleError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		RespondError(w, httpErr.StatusCode(), httpErr.Kind(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		RespondError(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrConflict):
		RespondError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrValidation):
		RespondError(w, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		RespondError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		RespondError(w, http.StatusForbidden, "forbidden", "Forbidden")
	default:
		RespondError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
