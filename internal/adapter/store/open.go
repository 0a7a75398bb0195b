package store

import (
	"errors"
	"fmt"

	"influencerag/internal/port"
)

// Open returns the configured vector-store backend, loading persisted
// state from dir when present. Missing state yields a fresh empty store;
// corrupt state is surfaced, never silently discarded.
func Open(backend, dir string, dimension int) (port.VectorStore, error) {
	switch backend {
	case "bolt":
		return OpenBoltStore(dir, dimension)
	case "", "memory":
		s, err := LoadMemoryStore(dir)
		if errors.Is(err, ErrNotFound) {
			return NewMemoryStore(dimension), nil
		}
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", backend)
	}
}
