package usecase

import (
	"errors"
	"strings"
	"testing"

	"influencerag/internal/adapter/chunker"
	"influencerag/internal/adapter/embedding"
	"influencerag/internal/adapter/store"
	"influencerag/internal/domain"
)

func newTestIngest(t *testing.T, maxChunkLen int) (*IngestUseCase, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore(0)
	chain, err := embedding.NewChain(
		embedding.Tier{Name: "hashed", Embedder: embedding.NewHashedEmbedder(256)},
	)
	if err != nil {
		t.Fatal(err)
	}
	uc := NewIngestUseCase(st, chain, chunker.NewPostChunker(maxChunkLen), 100, t.TempDir())
	return uc, st
}

func TestIngestStoresProfiles(t *testing.T) {
	uc, st := newTestIngest(t, 280)

	result, err := uc.Ingest([]domain.Profile{
		{Name: "Jane Doe", Handle: "@janedoe", Niche: "AI"},
		{Name: "Bob Fit", Handle: "@bobfit", Niche: "fitness"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if result.ProfilesIngested != 2 || result.RecordsStored != 2 {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.EmbedderTier != "hashed" {
		t.Errorf("expected hashed tier, got %q", result.EmbedderTier)
	}
	if st.Count() != 2 {
		t.Errorf("expected 2 stored records, got %d", st.Count())
	}
}

func TestIngestAssignsIDs(t *testing.T) {
	uc, st := newTestIngest(t, 280)

	if _, err := uc.Ingest([]domain.Profile{
		{Name: "Jane Doe", Handle: "@janedoe"},
	}, nil); err != nil {
		t.Fatal(err)
	}

	results, err := st.Search(make([]float32, 256), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Record.ID == "" {
		t.Error("expected an assigned record id")
	}
}

func TestIngestRejectsEmptyText(t *testing.T) {
	uc, st := newTestIngest(t, 280)

	_, err := uc.Ingest([]domain.Profile{
		{Name: "  ", Handle: "", Niche: ""},
	}, nil)
	if err == nil {
		t.Fatal("expected validation error for empty derivable text")
	}
	if st.Count() != 0 {
		t.Errorf("rejected record reached the store: count %d", st.Count())
	}
}

func TestIngestRejectsDuplicateIDs(t *testing.T) {
	uc, st := newTestIngest(t, 280)

	_, err := uc.Ingest([]domain.Profile{
		{ID: "x", Name: "Jane Doe", Handle: "@janedoe"},
		{ID: "x", Name: "Bob Fit", Handle: "@bobfit"},
	}, nil)
	if err == nil {
		t.Fatal("expected duplicate id error")
	}
	if st.Count() != 0 {
		t.Errorf("failed batch reached the store: count %d", st.Count())
	}
}

func TestIngestChunksLongPosts(t *testing.T) {
	uc, st := newTestIngest(t, 280)

	post := strings.TrimSpace(strings.Repeat("daily training insights for endurance athletes ", 13))
	if len(post) < 600 {
		t.Fatalf("test post too short: %d", len(post))
	}

	result, err := uc.Ingest([]domain.Profile{
		{ID: "coach", Name: "Cara Run", Handle: "@cararun", Niche: "running", SamplePost: post},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if result.RecordsStored < 3 {
		t.Fatalf("expected >= 3 chunk records, got %d", result.RecordsStored)
	}

	all, err := st.Search(make([]float32, 256), st.Count())
	if err != nil {
		t.Fatal(err)
	}
	for _, res := range all {
		if res.Record.ParentID != "coach" {
			t.Errorf("chunk record has parent %q, want coach", res.Record.ParentID)
		}
	}
}

func TestIngestPersistsStore(t *testing.T) {
	st := store.NewMemoryStore(0)
	dir := t.TempDir()
	uc := NewIngestUseCase(st, embedding.NewHashedEmbedder(64), chunker.NewPostChunker(280), 100, dir)

	if _, err := uc.Ingest([]domain.Profile{
		{Name: "Jane Doe", Handle: "@janedoe", Niche: "AI"},
	}, nil); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadMemoryStore(dir)
	if err != nil {
		t.Fatalf("ingest did not persist a loadable store: %v", err)
	}
	if loaded.Count() != 1 {
		t.Errorf("expected 1 persisted record, got %d", loaded.Count())
	}
}

func TestIngestEmptyInput(t *testing.T) {
	uc, _ := newTestIngest(t, 280)

	result, err := uc.Ingest(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.RecordsStored != 0 {
		t.Errorf("expected nothing stored, got %d", result.RecordsStored)
	}
}

func TestIngestProgressCallback(t *testing.T) {
	st := store.NewMemoryStore(0)
	uc := NewIngestUseCase(st, embedding.NewHashedEmbedder(32), chunker.NewPostChunker(280), 2, t.TempDir())

	var calls [][2]int
	_, err := uc.Ingest([]domain.Profile{
		{Name: "A", Handle: "@a"},
		{Name: "B", Handle: "@b"},
		{Name: "C", Handle: "@c"},
	}, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(calls) != 2 {
		t.Fatalf("expected 2 progress calls for batch size 2, got %d", len(calls))
	}
	last := calls[len(calls)-1]
	if last[0] != 3 || last[1] != 3 {
		t.Errorf("final progress call %v, want [3 3]", last)
	}
}

type unreachableEmbedder struct{ dimension int }

func (e unreachableEmbedder) Embed(texts []string) ([][]float32, error) {
	return nil, errors.New("connection refused")
}

func (e unreachableEmbedder) Dimension() int { return e.dimension }

func (e unreachableEmbedder) ModelName() string { return "unreachable" }

// A failing preferred tier must not poison a fresh store with its
// dimension; the tier that actually serves establishes it.
func TestIngestMixedDimensionChainFreshStore(t *testing.T) {
	st := store.NewMemoryStore(0)
	chain, err := embedding.NewChain(
		embedding.Tier{Name: "local", Embedder: unreachableEmbedder{dimension: 768}},
		embedding.Tier{Name: "hashed", Embedder: embedding.NewHashedEmbedder(1536)},
	)
	if err != nil {
		t.Fatal(err)
	}

	uc := NewIngestUseCase(st, chain, chunker.NewPostChunker(280), 100, t.TempDir())
	result, err := uc.Ingest([]domain.Profile{
		{Name: "Jane Doe", Handle: "@janedoe", Niche: "AI"},
		{Name: "Bob Fit", Handle: "@bobfit", Niche: "fitness"},
	}, nil)
	if err != nil {
		t.Fatalf("ingest through the fallback tier failed: %v", err)
	}

	if result.EmbedderTier != "hashed" {
		t.Errorf("expected the hashed tier to serve, got %q", result.EmbedderTier)
	}
	if st.Dimension() != 1536 {
		t.Errorf("store dimension %d, want 1536 from the serving tier", st.Dimension())
	}
	if st.Count() != 2 {
		t.Errorf("expected 2 stored records, got %d", st.Count())
	}
}
