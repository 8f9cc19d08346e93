package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes and a
// stable machine-readable kind. Implementing this interface enables
// extensible error handling without switch statements in every handler.
type HTTPError interface {
	error
	StatusCode() int
	Kind() string
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource or row was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}

	// ConfigError indicates a request the resource configuration does not
	// allow: unknown resource, read on a resource without a select surface,
	// delete on a resource without delete enabled.
	ConfigError struct {
		Message string
	}

	// DatabaseError wraps a query or connection failure
	DatabaseError struct {
		Message string
		Err     error
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }
func (e *ConfigError) Error() string       { return e.Message }
func (e *DatabaseError) Error() string     { return e.Message }

func (e *DatabaseError) Unwrap() error { return e.Err }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }
func (e *ConfigError) StatusCode() int       { return http.StatusNotFound }
func (e *DatabaseError) StatusCode() int     { return http.StatusInternalServerError }

// Kind implementations. These values are part of the wire contract: clients
// can branch on them without parsing the human-readable message.
func (e *NotFoundError) Kind() string     { return "not_found" }
func (e *ValidationError) Kind() string   { return "validation" }
func (e *UnauthorizedError) Kind() string { return "unauthorized" }
func (e *ForbiddenError) Kind() string    { return "forbidden" }
func (e *ConfigError) Kind() string       { return "config" }
func (e *DatabaseError) Kind() string     { return "database" }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// Is hooks let errors.Is() match the typed errors against the sentinels.
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// ConflictError represents a state conflict, e.g. accepting an invite that
// has already reached a terminal state.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) StatusCode() int { return http.StatusConflict }

func (e *ConflictError) Kind() string { return "conflict" }

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
