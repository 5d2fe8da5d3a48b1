package store

import "errors"

// ErrNotFound is returned when an object doesn't exist or isn't visible
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness rule
var ErrConflict = errors.New("conflict")
