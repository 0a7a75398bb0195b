package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"influencerag/internal/domain"
	"influencerag/internal/port"
)

var (
	bucketEntries = []byte("entries")
	bucketMeta    = []byte("meta")
	keyManifest   = []byte("manifest")
)

// BoltStore is the document-database vector-store backend. Entries live in
// a bbolt file under sequence keys so insertion order survives reloads, and
// an in-memory mirror keeps search as fast as the exact backend. Search
// semantics are identical to MemoryStore: cosine similarity, descending,
// insertion-order tie-break.
type BoltStore struct {
	db  *bbolt.DB
	dir string

	mu          sync.RWMutex
	records     []domain.Record
	vectors     [][]float32
	dimension   int
	embedderTag string
}

type boltEntry struct {
	Record domain.Record `json:"r"`
	Vector []float32     `json:"v"`
}

// OpenBoltStore opens or creates the bbolt-backed store in dir. A missing
// file means an empty store; an existing file that cannot be read back
// consistently is ErrCorruptState.
func OpenBoltStore(dir string, dimension int) (*BoltStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	dbPath := filepath.Join(dir, boltFile)
	_, statErr := os.Stat(dbPath)
	existed := statErr == nil

	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		if existed {
			return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
		}
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketEntries, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltStore{db: db, dir: dir, dimension: dimension}
	if err := s.load(existed); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// load mirrors all persisted entries into memory and verifies them against
// the stored manifest.
func (s *BoltStore) load(existed bool) error {
	var m Manifest
	var haveManifest bool

	err := s.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketMeta).Get(keyManifest); data != nil {
			if err := json.Unmarshal(data, &m); err != nil {
				return fmt.Errorf("%w: unreadable manifest entry: %v", ErrCorruptState, err)
			}
			haveManifest = true
		}

		return tx.Bucket(bucketEntries).ForEach(func(k, v []byte) error {
			var entry boltEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("%w: unreadable entry %x: %v", ErrCorruptState, k, err)
			}
			s.records = append(s.records, entry.Record)
			s.vectors = append(s.vectors, entry.Vector)
			return nil
		})
	})
	if err != nil {
		return err
	}

	if len(s.records) > 0 {
		if !haveManifest {
			if existed {
				return fmt.Errorf("%w: entries present but manifest missing", ErrCorruptState)
			}
			return nil
		}
		if len(s.records) != m.Count {
			return fmt.Errorf("%w: manifest count %d, found %d entries", ErrCorruptState, m.Count, len(s.records))
		}
		for i, vec := range s.vectors {
			if len(vec) != m.Dimension {
				return fmt.Errorf("%w: entry %d has dimension %d, manifest says %d",
					ErrCorruptState, i, len(vec), m.Dimension)
			}
		}
		s.dimension = m.Dimension
	}
	if haveManifest {
		s.embedderTag = m.Embedder
	}
	return nil
}

func (s *BoltStore) Add(items []port.VectorItem) error {
	if len(items) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dim := s.dimension
	if dim == 0 {
		dim = len(items[0].Vector)
	}
	for _, item := range items {
		if len(item.Vector) != dim {
			return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, dim, len(item.Vector))
		}
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEntries)
		for _, item := range items {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, seq)

			data, err := json.Marshal(boltEntry{Record: item.Record, Vector: item.Vector})
			if err != nil {
				return err
			}
			if err := b.Put(key, data); err != nil {
				return err
			}
		}
		return s.putManifest(tx, Manifest{
			Backend:   s.Backend(),
			Dimension: dim,
			Count:     len(s.records) + len(items),
			Embedder:  s.embedderTag,
		})
	})
	if err != nil {
		return err
	}

	s.dimension = dim
	for _, item := range items {
		s.records = append(s.records, item.Record)
		s.vectors = append(s.vectors, item.Vector)
	}
	return nil
}

func (s *BoltStore) putManifest(tx *bbolt.Tx, m Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketMeta).Put(keyManifest, data)
}

func (s *BoltStore) Search(query []float32, k int) ([]port.VectorResult, error) {
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

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	if k > len(scores) {
		k = len(scores)
	}
	return scores[:k], nil
}

func (s *BoltStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *BoltStore) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

func (s *BoltStore) SetEmbedderTag(tag string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embedderTag = tag
}

// Save syncs the manifest. Entry data is already durable in the bolt file,
// so this refreshes the stored manifest (embedder tag included) and writes
// the directory-level manifest for parity with the memory backend layout.
func (s *BoltStore) Save(dir string) error {
	s.mu.RLock()
	m := Manifest{
		Backend:   s.Backend(),
		Dimension: s.dimension,
		Count:     len(s.records),
		Embedder:  s.embedderTag,
	}
	s.mu.RUnlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return s.putManifest(tx, m)
	})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}
	return writeManifest(dir, m)
}

func (s *BoltStore) Backend() string {
	return "bolt"
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
