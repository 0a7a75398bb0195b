package domain

import "strings"

// Profile is one influencer profile as delivered by the ETL pipeline.
type Profile struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Handle     string `json:"handle"`
	Niche      string `json:"niche,omitempty"`
	Followers  int    `json:"followers,omitempty"`
	SamplePost string `json:"sample_post,omitempty"`
}

// Record is one embedded unit in the vector store: either a whole profile
// or one chunk of a long sample post. ParentID ties chunks back to the
// profile they came from so citations deduplicate per influencer.
type Record struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id"`
	Name     string `json:"name"`
	Handle   string `json:"handle"`
	Niche    string `json:"niche,omitempty"`
	Text     string `json:"text"`
}

// Citation returns the human-readable reference for the record's influencer.
func (r Record) Citation() string {
	handle := r.Handle
	if handle != "" && !strings.HasPrefix(handle, "@") {
		handle = "@" + handle
	}
	if handle == "" {
		return r.Name
	}
	return r.Name + " (" + handle + ")"
}

// ScoredRecord pairs a record with its similarity score for a query.
type ScoredRecord struct {
	Record Record
	Score  float64
}

// Answer is the result of one query: generated text plus citations in
// descending similarity order, one per distinct influencer. Grounding is
// attached only when the caller asked for it.
type Answer struct {
	Answer    string     `json:"answer"`
	Citations []string   `json:"citations"`
	Grounding *Grounding `json:"grounding,omitempty"`
}

// Grounding reports how well an answer is supported by the records it was
// composed from. Score combines token coverage of the answer by the
// retrieved texts, overlap between query and answer, and citation quality.
type Grounding struct {
	Grounded         bool    `json:"grounded"`
	Confidence       string  `json:"confidence"`
	Score            float64 `json:"score"`
	CitationCoverage float64 `json:"citation_coverage"`
	QueryRelevance   float64 `json:"query_relevance"`
	CitationQuality  float64 `json:"citation_quality"`
}
