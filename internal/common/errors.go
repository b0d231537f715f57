// Package common defines shared constants and sentinel errors used across
// the carelog client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Local persistence errors. ErrQuotaExceeded means the write was
	// rejected for size and the previously stored snapshot is intact;
	// the caller must roll back its in-memory change and tell the user.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// Remote store errors. Both are soft: the sync layer logs them and
	// proceeds with the last known local cache.
	ErrUnavailable   = errors.New("remote store unavailable")
	ErrSchemaMissing = errors.New("remote schema missing")

	// Validation errors block a save before any storage mutation.
	ErrValidation = errors.New("validation error")

	// Session errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
