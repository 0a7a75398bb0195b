package port

import "influencerag/internal/domain"

// VectorStore stores (vector, record) pairs and searches them by similarity.
// Two interchangeable backends exist: an in-memory exact store and a
// bbolt-backed persistent store. Both are append-only in the current contract.
type VectorStore interface {
	// Add appends vectors with their records. All vectors in the batch must
	// match the store's established dimension; on mismatch the store is left
	// unchanged and ErrDimensionMismatch is returned.
	Add(items []VectorItem) error

	// Search returns the top-k records by cosine similarity, descending,
	// ties broken by insertion order. A non-positive k or an empty store
	// yields no results and no error.
	Search(query []float32, k int) ([]VectorResult, error)

	// Count returns the number of stored vectors.
	Count() int

	// Dimension returns the established vector dimension, or 0 if the store
	// is empty and no dimension has been established yet.
	Dimension() int

	// SetEmbedderTag records which embedding model produced the stored
	// vectors. The tag is persisted in the manifest for diagnostics.
	SetEmbedderTag(tag string)

	// Save persists the full store state into dir. Partial writes must never
	// clobber the previously persisted state.
	Save(dir string) error

	// Backend returns the backend tag ("memory" or "bolt").
	Backend() string

	Close() error
}

// VectorItem is one vector with its record, ready to be stored.
type VectorItem struct {
	Record domain.Record
	Vector []float32
}

// VectorResult is one search hit.
type VectorResult struct {
	Record domain.Record
	Score  float64
}
