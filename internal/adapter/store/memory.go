package store

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"influencerag/internal/domain"
	"influencerag/internal/port"
)

// MemoryStore is the exact vector-store backend: append-only parallel
// slices searched by brute-force cosine similarity. Correct by
// construction and O(n*d) per query, which is fine at the hundreds to low
// thousands of records this system holds.
//
// A single writer mutates the store at a time; readers search against the
// last-committed state under a read lock.
type MemoryStore struct {
	mu          sync.RWMutex
	records     []domain.Record
	vectors     [][]float32
	dimension   int
	embedderTag string
}

// NewMemoryStore creates an empty store. A dimension of 0 means "establish
// from the first added batch".
func NewMemoryStore(dimension int) *MemoryStore {
	return &MemoryStore{dimension: dimension}
}

// LoadMemoryStore reconstructs a store from a directory written by Save.
// Returns ErrNotFound when nothing was persisted there, and ErrCorruptState
// when persisted state exists but fails verification.
func LoadMemoryStore(dir string) (*MemoryStore, error) {
	m, err := readManifest(dir)
	if err != nil {
		return nil, err
	}
	if m.Backend != "memory" {
		return nil, fmt.Errorf("%w: manifest written by backend %q, expected memory", ErrCorruptState, m.Backend)
	}

	records, err := readJSONFile[[]domain.Record](filepath.Join(dir, recordsFile))
	if err != nil {
		return nil, err
	}
	vectors, err := readJSONFile[[][]float32](filepath.Join(dir, vectorsFile))
	if err != nil {
		return nil, err
	}

	if len(records) != m.Count || len(vectors) != m.Count {
		return nil, fmt.Errorf("%w: manifest count %d, found %d records and %d vectors",
			ErrCorruptState, m.Count, len(records), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != m.Dimension {
			return nil, fmt.Errorf("%w: vector %d has dimension %d, manifest says %d",
				ErrCorruptState, i, len(vec), m.Dimension)
		}
	}

	return &MemoryStore{
		records:     records,
		vectors:     vectors,
		dimension:   m.Dimension,
		embedderTag: m.Embedder,
	}, nil
}

// readJSONFile reads a data file that the manifest promised exists; any
// read or parse failure means the persisted state is torn.
func readJSONFile[T any](path string) (T, error) {
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrCorruptState, filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("%w: %s: %v", ErrCorruptState, filepath.Base(path), err)
	}
	return out, nil
}

func (s *MemoryStore) Add(items []port.VectorItem) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before touching state so a mismatch leaves
	// the store unchanged.
	dim := s.dimension
	if dim == 0 {
		dim = len(items[0].Vector)
	}
	for _, item := range items {
		if len(item.Vector) != dim {
			return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, dim, len(item.Vector))
		}
	}

	s.dimension = dim
	for _, item := range items {
		s.records = append(s.records, item.Record)
		s.vectors = append(s.vectors, item.Vector)
	}
	return nil
}

func (s *MemoryStore) Search(query []float32, k int) ([]port.VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 || len(s.records) == 0 {
		return nil, nil
	}
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, store has %d", ErrDimensionMismatch, len(query), s.dimension)
	}

	scores := make([]port.VectorResult, len(s.records))
	for i := range s.records {
		scores[i] = port.VectorResult{
			Record: s.records[i],
			Score:  cosineSimilarity(query, s.vectors[i]),
		}
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	if k > len(scores) {
		k = len(scores)
	}
	return scores[:k], nil
}

func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

func (s *MemoryStore) SetEmbedderTag(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embedderTag = tag
}

// Save persists the store into dir. Each file is written to a temporary
// name and renamed into place; the manifest goes last so a crash mid-save
// leaves either the old state or the new state, never a mix the loader
// would trust.
func (s *MemoryStore) Save(dir string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	recordData, err := json.Marshal(s.records)
	if err != nil {
		return err
	}
	vectorData, err := json.Marshal(s.vectors)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(filepath.Join(dir, recordsFile), recordData); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(dir, vectorsFile), vectorData); err != nil {
		return fmt.Errorf("failed to write vectors: %w", err)
	}

	return writeManifest(dir, Manifest{
		Backend:   s.Backend(),
		Dimension: s.dimension,
		Count:     len(s.records),
		Embedder:  s.embedderTag,
	})
}

func (s *MemoryStore) Backend() string {
	return "memory"
}

func (s *MemoryStore) Close() error {
	return nil
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
