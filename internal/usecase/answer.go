package usecase

import (
	"fmt"
	"strings"

	"influencerag/internal/adapter/analyzer"
	"influencerag/internal/domain"
	"influencerag/internal/port"
)

const systemPrompt = `You are a helpful assistant for exploring Twitter/X influencers.
Your job is to answer questions concisely using ONLY the provided influencer context.
Always mention influencer names and handles when relevant.
If the answer is not in the context, say you don't know.`

// NoContextAnswer is the fixed response when retrieval produces nothing.
const NoContextAnswer = "Not enough information in the ingested influencer data to answer that."

// Composition modes. Both retrieve and cite identically; they differ only
// in how the grounded context and the deterministic answer are assembled.
const (
	ModeVanilla    = "vanilla"
	ModeStructured = "structured"
)

// AnswerUseCase is the retrieval-augmented answer pipeline: retrieve,
// ground, generate, cite. A query always yields an Answer; provider
// failures degrade to deterministic composition instead of erroring.
type AnswerUseCase struct {
	retriever port.Retriever
	llm       port.LLM // nil when no model is configured
	topK      int
	grounding *analyzer.GroundingAnalyzer
}

func NewAnswerUseCase(retriever port.Retriever, llm port.LLM, topK int) *AnswerUseCase {
	if topK <= 0 {
		topK = 3
	}
	return &AnswerUseCase{
		retriever: retriever,
		llm:       llm,
		topK:      topK,
		grounding: analyzer.NewGroundingAnalyzer(),
	}
}

// AnswerOptions are per-call overrides. They never change the use case's
// configured defaults. Grounding attaches a deterministic support report
// to the answer.
type AnswerOptions struct {
	TopK      int
	Mode      string
	LLM       port.LLM
	Grounding bool
}

// Answer runs one query through the pipeline. The only returned errors
// are store-integrity failures surfaced by retrieval; anything
// provider-related falls back silently.
func (u *AnswerUseCase) Answer(query string, opts AnswerOptions) (domain.Answer, error) {
	mode := opts.Mode
	if mode == "" {
		mode = ModeVanilla
	}
	if mode != ModeVanilla && mode != ModeStructured {
		return domain.Answer{}, fmt.Errorf("unknown composition mode: %s", mode)
	}

	k := opts.TopK
	if k <= 0 {
		k = u.topK
	}

	// A blank query never reaches the embedder.
	if strings.TrimSpace(query) == "" {
		return noContext(), nil
	}

	results, err := u.retriever.Search(query, k)
	if err != nil {
		return domain.Answer{}, err
	}
	if len(results) == 0 {
		return noContext(), nil
	}

	citations := citationList(results)

	llm := opts.LLM
	if llm == nil {
		llm = u.llm
	}

	var text string
	if llm != nil {
		generated, err := llm.GenerateWithSystem(systemPrompt, userPrompt(query, results, mode))
		if err == nil && strings.TrimSpace(generated) != "" {
			text = strings.TrimSpace(generated)
		}
		// Model unreachable or empty output: take the deterministic path.
	}
	if text == "" {
		text = extractiveAnswer(query, results, mode)
	}

	answer := domain.Answer{
		Answer:    text,
		Citations: citations,
	}
	if opts.Grounding {
		report := u.grounding.Analyze(query, text, results)
		answer.Grounding = &report
	}
	return answer, nil
}

func noContext() domain.Answer {
	return domain.Answer{
		Answer:    NoContextAnswer,
		Citations: []string{},
	}
}

// citationList returns one citation per distinct influencer, in retrieval
// rank order. Chunk-level hits deduplicate to their parent profile.
func citationList(results []domain.ScoredRecord) []string {
	citations := make([]string, 0, len(results))
	seen := make(map[string]struct{}, len(results))

	for _, res := range results {
		key := res.Record.ParentID
		if key == "" {
			key = res.Record.ID
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		citations = append(citations, res.Record.Citation())
	}
	return citations
}

// userPrompt builds the grounded prompt for the remote model.
func userPrompt(query string, results []domain.ScoredRecord, mode string) string {
	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(query)
	sb.WriteString("\n\nInfluencer Context:\n")
	sb.WriteString(contextBlock(results, mode))
	sb.WriteString("\nRespond concisely and ground your answer in the above context.")
	return sb.String()
}

// contextBlock renders the retrieved records in rank order. The vanilla
// mode uses one line per record; the structured mode uses numbered
// sections.
func contextBlock(results []domain.ScoredRecord, mode string) string {
	var sb strings.Builder
	for i, res := range results {
		rec := res.Record
		switch mode {
		case ModeStructured:
			sb.WriteString(fmt.Sprintf("### [%d] %s\n", i+1, rec.Citation()))
			if rec.Niche != "" {
				sb.WriteString("Niche: " + rec.Niche + "\n")
			}
			sb.WriteString(rec.Text + "\n\n")
		default:
			sb.WriteString(fmt.Sprintf("- %s | Niche: %s | %s\n", rec.Citation(), rec.Niche, rec.Text))
		}
	}
	return sb.String()
}

// extractiveAnswer composes the deterministic offline answer from the
// retrieved records. Identical (query, retrieval) pairs always produce
// identical text.
func extractiveAnswer(query string, results []domain.ScoredRecord, mode string) string {
	mentions := citationList(results)

	if mode == ModeStructured {
		var sb strings.Builder
		sb.WriteString("Query: " + query + "\nTop matches:\n")
		seen := make(map[string]struct{}, len(results))
		n := 0
		for _, res := range results {
			key := res.Record.ParentID
			if key == "" {
				key = res.Record.ID
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			n++
			sb.WriteString(fmt.Sprintf("%d. %s", n, res.Record.Citation()))
			if res.Record.Niche != "" {
				sb.WriteString(" | niche: " + res.Record.Niche)
			}
			sb.WriteString("\n")
		}
		return strings.TrimRight(sb.String(), "\n")
	}

	return fmt.Sprintf(
		"Based on the provided context for your question '%s', relevant influencers include: %s.",
		query, strings.Join(mentions, ", "),
	)
}
