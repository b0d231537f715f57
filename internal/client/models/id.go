package models

import "github.com/google/uuid"

// NewID returns a new time-ordered record id. UUIDv7 keeps ids sortable by
// creation time, which the original time-based ids relied on.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the entropy source does; fall back to v4.
		return uuid.NewString()
	}
	return id.String()
}
