package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"influencerag/internal/usecase"
)

var (
	queryText      string
	queryTopK      int
	queryMode      string
	queryJSON      bool
	queryGrounding bool
	queryLLMModel  string
	queryLLMURL    string
	queryLLMKeyEnv string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Ask a question about the ingested influencers",
	Long: `Answer a natural-language question using the ingested influencer data.
Answers are grounded in retrieved profiles and cite the influencers they
drew from. Without a reachable language model the answer is composed
deterministically from the retrieved records.

Examples:
  assistant query -q "Who covers AI?"
  assistant query -q "fitness coaches" --top-k 5 --mode structured --json`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringVarP(&queryText, "query", "q", "", "question to answer (required)")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of records to retrieve (default from config)")
	queryCmd.Flags().StringVar(&queryMode, "mode", "", "composition mode: vanilla or structured")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().BoolVar(&queryGrounding, "grounding", false, "attach a grounding-confidence report to the answer")
	queryCmd.Flags().StringVar(&queryLLMModel, "model", "", "override the generation model for this query")
	queryCmd.Flags().StringVar(&queryLLMURL, "base-url", "", "override the generation endpoint for this query")
	queryCmd.Flags().StringVar(&queryLLMKeyEnv, "key-env", "", "override the API key environment variable for this query")
	queryCmd.MarkFlagRequired("query")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	st, _, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	answerUC := usecase.NewAnswerUseCase(
		buildRetriever(cfg, st, embedder),
		buildLLM(cfg.LLM),
		cfg.Retrieve.TopK,
	)

	opts := usecase.AnswerOptions{
		TopK:      queryTopK,
		Mode:      queryMode,
		Grounding: queryGrounding,
	}
	if queryLLMModel != "" || queryLLMURL != "" || queryLLMKeyEnv != "" {
		llmCfg := cfg.LLM
		if queryLLMModel != "" {
			llmCfg.Model = queryLLMModel
		}
		if queryLLMURL != "" {
			llmCfg.BaseURL = queryLLMURL
		}
		if queryLLMKeyEnv != "" {
			llmCfg.APIKeyEnv = queryLLMKeyEnv
		}
		opts.LLM = buildLLM(llmCfg)
	}

	answer, err := answerUC.Answer(queryText, opts)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		output, _ := json.MarshalIndent(answer, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(answer.Answer)
	if len(answer.Citations) > 0 {
		fmt.Println("\nSources:")
		for _, c := range answer.Citations {
			fmt.Printf("  - %s\n", c)
		}
	}
	if answer.Grounding != nil {
		fmt.Printf("\nGrounding: %s (score %.3f, coverage %.3f, relevance %.3f, citation quality %.3f)\n",
			answer.Grounding.Confidence,
			answer.Grounding.Score,
			answer.Grounding.CitationCoverage,
			answer.Grounding.QueryRelevance,
			answer.Grounding.CitationQuality)
	}
	return nil
}
