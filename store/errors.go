package store

import "errors"

var (
	// ErrNotFound is returned when no wishlist exists for the requested id.
	ErrNotFound = errors.New("wishapp: wishlist not found")
)
