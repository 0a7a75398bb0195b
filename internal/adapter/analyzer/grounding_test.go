package analyzer

import (
	"testing"

	"influencerag/internal/domain"
)

func groundingResults(score float64) []domain.ScoredRecord {
	return []domain.ScoredRecord{
		{
			Record: domain.Record{
				ID: "jane", ParentID: "jane", Name: "Jane Doe", Handle: "@janedoe",
				Niche: "artificial intelligence",
				Text:  "jane doe janedoe artificial intelligence research",
			},
			Score: score,
		},
	}
}

func TestGroundingSupportedAnswer(t *testing.T) {
	a := NewGroundingAnalyzer()

	report := a.Analyze(
		"artificial intelligence research",
		"jane doe covers artificial intelligence research",
		groundingResults(0.9),
	)

	if !report.Grounded {
		t.Errorf("supported answer reported as ungrounded: %+v", report)
	}
	if report.Confidence != "high" {
		t.Errorf("expected high confidence, got %q (score %f)", report.Confidence, report.Score)
	}
	if report.CitationCoverage < 0.8 {
		t.Errorf("expected coverage >= 0.8, got %f", report.CitationCoverage)
	}
	if report.QueryRelevance != 1 {
		t.Errorf("expected full query relevance, got %f", report.QueryRelevance)
	}
}

func TestGroundingFabricatedAnswer(t *testing.T) {
	a := NewGroundingAnalyzer()

	report := a.Analyze(
		"artificial intelligence research",
		"quantum sailing regatta results announced yesterday",
		groundingResults(0.9),
	)

	if report.Grounded {
		t.Errorf("fabricated answer reported as grounded: %+v", report)
	}
	if report.Confidence != "low" {
		t.Errorf("expected low confidence, got %q", report.Confidence)
	}
	if report.CitationCoverage != 0 {
		t.Errorf("expected zero coverage, got %f", report.CitationCoverage)
	}
}

func TestGroundingOrdersAnswersBySupport(t *testing.T) {
	a := NewGroundingAnalyzer()
	results := groundingResults(0.5)

	supported := a.Analyze("artificial intelligence", "jane doe artificial intelligence", results)
	partial := a.Analyze("artificial intelligence", "jane doe discusses many unrelated hobbies weekly", results)

	if supported.Score <= partial.Score {
		t.Errorf("supported answer must outscore a padded one: %f <= %f", supported.Score, partial.Score)
	}
}

func TestGroundingDeterministic(t *testing.T) {
	a := NewGroundingAnalyzer()
	results := groundingResults(0.7)

	first := a.Analyze("artificial intelligence", "jane doe artificial intelligence", results)
	second := a.Analyze("artificial intelligence", "jane doe artificial intelligence", results)

	if first != second {
		t.Errorf("identical inputs produced different reports:\n%+v\n%+v", first, second)
	}
}

func TestGroundingEmptyInputs(t *testing.T) {
	a := NewGroundingAnalyzer()

	for name, report := range map[string]domain.Grounding{
		"no results":   a.Analyze("query", "answer", nil),
		"empty answer": a.Analyze("query", "   ", groundingResults(0.9)),
	} {
		if report.Grounded {
			t.Errorf("%s: zero report must not be grounded: %+v", name, report)
		}
		if report.Score != 0 {
			t.Errorf("%s: expected zero score, got %f", name, report.Score)
		}
	}
}

func TestGroundingStopwordsIgnored(t *testing.T) {
	a := NewGroundingAnalyzer()

	// Connective words alone carry no content; coverage must not be
	// diluted by them.
	report := a.Analyze(
		"artificial intelligence",
		"the answer is that jane doe does artificial intelligence",
		groundingResults(0.9),
	)

	if report.CitationCoverage < 0.7 {
		t.Errorf("stopwords diluted coverage: %f", report.CitationCoverage)
	}
}
