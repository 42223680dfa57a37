// Package errs holds the error values shared by every cache driver.
package errs

import "errors"

var (
	// ErrKeyNotFound is returned by Get when nothing is stored at the key
	ErrKeyNotFound = errors.New("key not found")

	// ErrKeyGeneration is returned when a driver cannot mint a unique key
	ErrKeyGeneration = errors.New("could not generate a unique key")
)
