package store

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector's dimension differs
	// from the store's established dimension. The failing batch is never
	// partially applied.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCorruptState is returned when persisted state exists but cannot be
	// trusted. Callers must not treat this as an empty store.
	ErrCorruptState = errors.New("persisted store state is corrupt")

	// ErrNotFound is returned when no persisted state exists at all.
	// Callers treat this as "no prior ingestion happened yet".
	ErrNotFound = errors.New("no persisted store state found")
)
