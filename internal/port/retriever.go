package port

import "influencerag/internal/domain"

// Retriever defines the interface for searching ingested influencer records.
type Retriever interface {
	// Search returns the top-k records matching the query, best first.
	Search(query string, k int) ([]domain.ScoredRecord, error)
}
