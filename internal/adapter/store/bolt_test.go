package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"influencerag/internal/domain"
	"influencerag/internal/port"
)

func TestBoltStoreAddSearch(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenBoltStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Add(testItems()); err != nil {
		t.Fatal(err)
	}

	results, err := s.Search([]float32{0, 0.9, 0.1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Record.ID != "r2" {
		t.Errorf("expected r2 first, got %s", results[0].Record.ID)
	}
}

func TestBoltStoreReopenPreservesOrderAndResults(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenBoltStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Add(testItems()); err != nil {
		t.Fatal(err)
	}
	s.SetEmbedderTag("hashed")
	if err := s.Save(dir); err != nil {
		t.Fatal(err)
	}

	query := []float32{0.5, 0.5, 0.1}
	want, err := s.Search(query, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenBoltStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	if reopened.Count() != 3 {
		t.Fatalf("expected 3 entries after reopen, got %d", reopened.Count())
	}
	got, err := reopened.Search(query, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i := range want {
		if got[i].Record.ID != want[i].Record.ID {
			t.Errorf("rank %d: id %s vs %s", i, got[i].Record.ID, want[i].Record.ID)
		}
	}
}

func TestBoltStoreDimensionMismatch(t *testing.T) {
	dir := t.TempDir()

	s, err := OpenBoltStore(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Add(testItems()); err != nil {
		t.Fatal(err)
	}

	err = s.Add([]port.VectorItem{
		{Record: domain.Record{ID: "wide"}, Vector: make([]float32, 768)},
	})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	if s.Count() != 3 {
		t.Errorf("store changed by failed add: count %d", s.Count())
	}
}

func TestBoltStoreSearchEmpty(t *testing.T) {
	s, err := OpenBoltStore(t.TempDir(), 3)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	results, err := s.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestBoltStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, boltFile), []byte("this is not a bolt database, but it is long enough to look like one"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := OpenBoltStore(dir, 0)
	if err == nil {
		t.Fatal("expected error opening corrupt db")
	}
	if !errors.Is(err, ErrCorruptState) {
		t.Fatalf("expected ErrCorruptState, got %v", err)
	}
}

func TestOpenBoltBackend(t *testing.T) {
	s, err := Open("bolt", t.TempDir(), 4)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Backend() != "bolt" {
		t.Errorf("expected bolt backend, got %s", s.Backend())
	}
}

func TestBoltStoreSearchNonPositiveK(t *testing.T) {
	s, err := OpenBoltStore(t.TempDir(), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Add(testItems()); err != nil {
		t.Fatal(err)
	}

	for _, k := range []int{0, -1} {
		results, err := s.Search([]float32{1, 0, 0}, k)
		if err != nil {
			t.Fatalf("k=%d must not error: %v", k, err)
		}
		if results != nil {
			t.Errorf("k=%d: expected no results, got %v", k, results)
		}
	}
}
