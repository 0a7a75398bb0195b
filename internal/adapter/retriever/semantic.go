package retriever

import (
	"fmt"
	"strings"

	"influencerag/internal/domain"
	"influencerag/internal/port"
)

// SemanticRetriever embeds the query with the configured embedding chain
// and ranks stored records by cosine similarity.
type SemanticRetriever struct {
	vectorStore port.VectorStore
	embedder    port.Embedder
}

func NewSemanticRetriever(vectorStore port.VectorStore, embedder port.Embedder) *SemanticRetriever {
	return &SemanticRetriever{
		vectorStore: vectorStore,
		embedder:    embedder,
	}
}

func (r *SemanticRetriever) Search(query string, k int) ([]domain.ScoredRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if r.vectorStore.Count() == 0 {
		return nil, nil
	}

	embeddings, err := r.embedder.Embed([]string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}

	results, err := r.vectorStore.Search(embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	// Zero-score hits share no signal with the query; keeping them would
	// fabricate citations for unrelated records.
	records := make([]domain.ScoredRecord, 0, len(results))
	for _, result := range results {
		if result.Score <= 0 {
			continue
		}
		records = append(records, domain.ScoredRecord{
			Record: result.Record,
			Score:  result.Score,
		})
	}

	return records, nil
}
