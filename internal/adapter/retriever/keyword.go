package retriever

import (
	"strings"

	"influencerag/internal/domain"
	"influencerag/internal/port"
)

// KeywordFallbackRetriever wraps another retriever and, when similarity
// search finds nothing, falls back to case-insensitive substring matching
// over the record fields. This keeps short queries usable under the hashed
// embedding tier, where a query sharing no token with any record scores
// zero everywhere.
type KeywordFallbackRetriever struct {
	primary port.Retriever
	store   RecordLister
}

// RecordLister is the slice of the vector-store surface the scan needs.
// Both backends satisfy it.
type RecordLister interface {
	Search(query []float32, k int) ([]port.VectorResult, error)
	Count() int
	Dimension() int
}

func NewKeywordFallbackRetriever(primary port.Retriever, store RecordLister) *KeywordFallbackRetriever {
	return &KeywordFallbackRetriever{
		primary: primary,
		store:   store,
	}
}

func (r *KeywordFallbackRetriever) Search(query string, k int) ([]domain.ScoredRecord, error) {
	results, err := r.primary.Search(query, k)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return results, nil
	}

	return r.keywordScan(query, k), nil
}

// keywordScan walks all stored records in insertion order and keeps those
// whose fields contain the query as a substring.
func (r *KeywordFallbackRetriever) keywordScan(query string, k int) []domain.ScoredRecord {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" || r.store.Count() == 0 {
		return nil
	}

	// A zero query vector ranks nothing, so ask for every record and scan
	// the returned set; ordering degenerates to insertion order.
	all, err := r.store.Search(make([]float32, r.store.Dimension()), r.store.Count())
	if err != nil {
		return nil
	}

	var matches []domain.ScoredRecord
	for _, res := range all {
		rec := res.Record
		haystacks := []string{rec.Name, rec.Handle, rec.Niche, rec.Text}
		for _, h := range haystacks {
			if h != "" && strings.Contains(strings.ToLower(h), needle) {
				matches = append(matches, domain.ScoredRecord{Record: rec, Score: 0})
				break
			}
		}
		if len(matches) == k {
			break
		}
	}
	return matches
}
