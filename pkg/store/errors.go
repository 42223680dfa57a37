package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the normal negative result of a lookup or of a mutation
	// whose target does not exist
	ErrNotFound = errors.New("not found")

	// ErrIDGeneration means the backend could not mint a unique id
	ErrIDGeneration = errors.New("could not generate a new id")

	// ErrBackend wraps every read or write the storage driver rejected
	ErrBackend = errors.New("storage backend error")

	ErrInvalidID   = errors.New("invalid id")
	ErrEmptyTeamID = errors.New("team id is empty")
	ErrValidation  = errors.New("validation failed")
)

func backendErr(op, key string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrBackend, op, key, err)
}
