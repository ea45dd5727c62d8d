package repository

import "errors"

var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when a create-if-absent write loses to a
	// concurrent creator.
	ErrAlreadyExists = errors.New("entity already exists")
)
