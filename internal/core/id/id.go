// Package id provides UUIDv7 generation for all entities.
// UUIDv7 is time-ordered, so primary keys sort naturally by creation time.
package id

import (
	"github.com/google/uuid"
)

// ID is a type alias for UUID, used across all entities.
type ID = uuid.UUID

// New generates a new UUIDv7.
func New() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to V4 if V7 fails (should never happen)
		return uuid.New()
	}
	return id
}

// Parse converts a string to ID with validation.
func Parse(s string) (ID, error) {
	return uuid.Parse(s)
}

// MustParse converts a string to ID, panics on error.
// Use only for constants and tests.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero-value UUID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether id is the zero value.
func IsNil(id ID) bool {
	return id == uuid.Nil
}
