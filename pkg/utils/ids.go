package utils

import (
	"github.com/google/uuid"
)

// GenerateUUIDv7 generates a new UUID v7
func GenerateUUIDv7() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// ShortRef returns at most the first n characters of a reference.
func ShortRef(ref string, n int) string {
	if len(ref) > n {
		return ref[:n]
	}
	return ref
}
