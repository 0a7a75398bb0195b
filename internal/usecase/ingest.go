package usecase

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"influencerag/internal/adapter/chunker"
	"influencerag/internal/domain"
	"influencerag/internal/port"
)

// IngestUseCase turns influencer profiles into embedded records in the
// vector store and persists the store after every successful batch.
type IngestUseCase struct {
	store      port.VectorStore
	embedder   port.Embedder
	chunker    *chunker.PostChunker
	batchSize  int
	persistDir string
}

// NewIngestUseCase creates an ingest use case. persistDir is where the
// store is saved after each batch; an empty persistDir keeps the store
// in memory only.
func NewIngestUseCase(
	store port.VectorStore,
	embedder port.Embedder,
	chunker *chunker.PostChunker,
	batchSize int,
	persistDir string,
) *IngestUseCase {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &IngestUseCase{
		store:      store,
		embedder:   embedder,
		chunker:    chunker,
		batchSize:  batchSize,
		persistDir: persistDir,
	}
}

// IngestResult contains the results of an ingestion batch.
type IngestResult struct {
	ProfilesIngested int
	RecordsStored    int
	EmbedderTier     string
}

// Ingest validates, chunks, embeds, and stores the given profiles as one
// batch. Validation or embedding failure commits nothing. The progress
// callback, if non-nil, is invoked after each embedded sub-batch.
func (u *IngestUseCase) Ingest(profiles []domain.Profile, progress func(done, total int)) (*IngestResult, error) {
	if len(profiles) == 0 {
		return &IngestResult{}, nil
	}

	records, err := u.buildRecords(profiles)
	if err != nil {
		return nil, err
	}

	// Embedding happens outside any store lock; network-tier latency must
	// not block concurrent queries against the committed state.
	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Text
	}

	vectors := make([][]float32, 0, len(records))
	for i := 0; i < len(texts); i += u.batchSize {
		end := i + u.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := u.embedder.Embed(texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embedding batch failed: %w", err)
		}
		if len(batch) != end-i {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(batch), end-i)
		}
		vectors = append(vectors, batch...)

		if progress != nil {
			progress(end, len(texts))
		}
	}

	items := make([]port.VectorItem, len(records))
	for i := range records {
		items[i] = port.VectorItem{Record: records[i], Vector: vectors[i]}
	}

	if err := u.store.Add(items); err != nil {
		return nil, err
	}

	tier := u.embedderTier()
	u.store.SetEmbedderTag(tier)
	if u.persistDir != "" {
		if err := u.store.Save(u.persistDir); err != nil {
			return nil, fmt.Errorf("failed to persist store: %w", err)
		}
	}

	return &IngestResult{
		ProfilesIngested: len(profiles),
		RecordsStored:    len(items),
		EmbedderTier:     tier,
	}, nil
}

// buildRecords validates profiles and expands long sample posts into
// chunk records sharing the profile's identity.
func (u *IngestUseCase) buildRecords(profiles []domain.Profile) ([]domain.Record, error) {
	seen := make(map[string]struct{}, len(profiles))
	var records []domain.Record

	for i, p := range profiles {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			id = uuid.NewString()
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate record id %q at index %d", id, i)
		}
		seen[id] = struct{}{}

		base := embeddingText(p.Name, p.Handle, p.Niche, "")
		if base == "" && strings.TrimSpace(p.SamplePost) == "" {
			return nil, fmt.Errorf("record at index %d has no text to embed", i)
		}

		chunks := u.chunker.Chunk(p.SamplePost)
		if len(chunks) == 0 {
			records = append(records, domain.Record{
				ID:       id,
				ParentID: id,
				Name:     p.Name,
				Handle:   p.Handle,
				Niche:    p.Niche,
				Text:     base,
			})
			continue
		}

		for n, chunk := range chunks {
			records = append(records, domain.Record{
				ID:       fmt.Sprintf("%s#%d", id, n),
				ParentID: id,
				Name:     p.Name,
				Handle:   p.Handle,
				Niche:    p.Niche,
				Text:     embeddingText(p.Name, p.Handle, p.Niche, chunk),
			})
		}
	}

	return records, nil
}

// embeddingText derives the text that gets embedded: the profile's
// identity fields plus one post chunk, joined into a single string.
func embeddingText(name, handle, niche, chunk string) string {
	var parts []string
	for _, part := range []string{name, handle, niche, chunk} {
		if s := strings.TrimSpace(part); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ". ")
}

// embedderTier reports which tier served the ingestion, falling back to
// the embedder's model name when the embedder is not a fallback chain.
func (u *IngestUseCase) embedderTier() string {
	if chain, ok := u.embedder.(interface{ ActiveTier() string }); ok {
		if tier := chain.ActiveTier(); tier != "" {
			return tier
		}
	}
	return u.embedder.ModelName()
}
