// Package store defines storage errors shared by persistence implementations.
package store

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a unique constraint is violated.
	ErrAlreadyExists = errors.New("record already exists")
)
