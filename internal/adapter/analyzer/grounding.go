package analyzer

import (
	"math"
	"strings"

	"influencerag/internal/domain"
)

// Score weights and bands for the grounding report.
const (
	coverageWeight  = 0.5
	relevanceWeight = 0.3
	qualityWeight   = 0.2

	groundedThreshold = 0.4
	highThreshold     = 0.7
)

// contentStopwords are excluded from coverage and relevance counting so
// connective boilerplate in an answer does not drag the metrics.
var contentStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "can": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "i": {}, "you": {}, "he": {}, "she": {}, "it": {},
	"we": {}, "they": {}, "me": {}, "him": {}, "her": {}, "us": {},
	"them": {}, "your": {},
}

// GroundingAnalyzer produces a deterministic grounding report for an
// answer: no model, no network, the same inputs always yield the same
// report. Identical scoring runs offline and against LLM output alike.
type GroundingAnalyzer struct {
	tokenizer *Tokenizer
}

func NewGroundingAnalyzer() *GroundingAnalyzer {
	return &GroundingAnalyzer{tokenizer: NewTokenizer()}
}

// Analyze scores how well the answer is supported by the retrieved
// records. An empty answer or empty retrieval yields the zero report.
func (a *GroundingAnalyzer) Analyze(query, answer string, results []domain.ScoredRecord) domain.Grounding {
	if strings.TrimSpace(answer) == "" || len(results) == 0 {
		return domain.Grounding{Confidence: "low"}
	}

	coverage := a.citationCoverage(answer, results)
	relevance := a.queryRelevance(query, answer)
	quality := citationQuality(results)

	score := coverage*coverageWeight + relevance*relevanceWeight + quality*qualityWeight

	confidence := "low"
	switch {
	case score >= highThreshold:
		confidence = "high"
	case score >= groundedThreshold:
		confidence = "medium"
	}

	return domain.Grounding{
		Grounded:         score >= groundedThreshold,
		Confidence:       confidence,
		Score:            round3(score),
		CitationCoverage: round3(coverage),
		QueryRelevance:   round3(relevance),
		CitationQuality:  round3(quality),
	}
}

// citationCoverage is the fraction of the answer's content tokens that
// appear in the retrieved record texts.
func (a *GroundingAnalyzer) citationCoverage(answer string, results []domain.ScoredRecord) float64 {
	answerTokens := a.contentTokens(answer)
	if len(answerTokens) == 0 {
		return 0
	}

	recordTokens := make(map[string]struct{})
	for _, res := range results {
		for token := range a.contentTokens(res.Record.Text) {
			recordTokens[token] = struct{}{}
		}
	}

	covered := 0
	for token := range answerTokens {
		if _, ok := recordTokens[token]; ok {
			covered++
		}
	}
	return float64(covered) / float64(len(answerTokens))
}

// queryRelevance is the fraction of the query's content tokens that the
// answer repeats.
func (a *GroundingAnalyzer) queryRelevance(query, answer string) float64 {
	queryTokens := a.contentTokens(query)
	if len(queryTokens) == 0 {
		return 0
	}

	answerTokens := a.contentTokens(answer)
	overlap := 0
	for token := range queryTokens {
		if _, ok := answerTokens[token]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(queryTokens))
}

// citationQuality blends mean similarity score, text diversity across the
// retrieved records, and field completeness of each record.
func citationQuality(results []domain.ScoredRecord) float64 {
	var scoreSum, completenessSum float64
	texts := make(map[string]struct{}, len(results))

	for _, res := range results {
		scoreSum += math.Max(0, math.Min(1, res.Score))
		texts[res.Record.Text] = struct{}{}

		var completeness float64
		for _, field := range []string{res.Record.Name, res.Record.Handle, res.Record.Niche, res.Record.Text} {
			if field != "" {
				completeness += 0.25
			}
		}
		completenessSum += completeness
	}

	n := float64(len(results))
	avgScore := scoreSum / n
	diversity := float64(len(texts)) / n
	completeness := completenessSum / n

	return avgScore*0.4 + diversity*0.3 + completeness*0.3
}

// contentTokens returns the distinct tokens of text that carry content:
// longer than two runes and not a stopword.
func (a *GroundingAnalyzer) contentTokens(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, token := range a.tokenizer.Tokenize(text) {
		if len([]rune(token)) <= 2 {
			continue
		}
		if _, stop := contentStopwords[token]; stop {
			continue
		}
		tokens[token] = struct{}{}
	}
	return tokens
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
