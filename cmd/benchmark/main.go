package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"influencerag/config"
	"influencerag/internal/adapter/embedding"
	"influencerag/internal/adapter/store"
)

func main() {
	storeRoot := flag.String("dir", ".", "Directory containing the assistant store")
	query := flag.String("q", "", "Query to benchmark")
	topK := flag.Int("k", 10, "Number of results")
	flag.Parse()

	if *query == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -dir . -q \"query\"")
		fmt.Println("\nTests:")
		fmt.Println("  1. Embedding infrastructure (tier selection, vector store)")
		fmt.Println("  2. Semantic similarity (query vs stored profiles)")
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*storeRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	embedder, err := buildChain(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building embedder: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.Store.Backend, cfg.StoreDir(*storeRoot), 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	fmt.Println("SEMANTIC SEARCH BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Records indexed: %d\n", st.Count())
	fmt.Printf("Backend: %s\n", st.Backend())
	fmt.Printf("Dimension: %d\n", st.Dimension())
	fmt.Println()

	fmt.Printf("Query: \"%s\"\n", *query)
	fmt.Println(strings.Repeat("-", 70))

	start := time.Now()
	queryVec, err := embedder.Embed([]string{*query})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embedding error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Query embedded via %q tier in %s\n\n", embedder.ActiveTier(), time.Since(start).Round(time.Microsecond))

	start = time.Now()
	results, err := st.Search(queryVec[0], *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
		os.Exit(1)
	}
	searchTime := time.Since(start)

	if len(results) == 0 {
		fmt.Println("No matches.")
		return
	}

	fmt.Printf("Top %d matches (%s):\n\n", len(results), searchTime.Round(time.Microsecond))

	totalScore := 0.0
	for i, r := range results {
		totalScore += r.Score

		rating := "LOW"
		if r.Score > 0.7 {
			rating = "HIGH"
		} else if r.Score > 0.5 {
			rating = "GOOD"
		} else if r.Score > 0.3 {
			rating = "OK"
		}

		preview := strings.ReplaceAll(r.Record.Text, "\n", " ")
		if len(preview) > 150 {
			preview = preview[:150] + "..."
		}

		fmt.Printf("%d. [%s %.3f] %s\n", i+1, rating, r.Score, r.Record.Citation())
		fmt.Printf("   %s\n\n", preview)
	}

	avgScore := totalScore / float64(len(results))
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Average similarity: %.3f\n", avgScore)
	fmt.Printf("  Top-1 similarity:   %.3f\n", results[0].Score)

	if avgScore > 0.5 {
		fmt.Println("  Status: GOOD - semantic search working well")
	} else if avgScore > 0.3 {
		fmt.Println("  Status: OK - results are somewhat related")
	} else {
		fmt.Println("  Status: POOR - consider a stronger embedding tier or re-ingesting")
	}
}

// buildChain mirrors the CLI's provider selection without pulling in cobra.
func buildChain(cfg *config.Config) (*embedding.Chain, error) {
	var tiers []embedding.Tier

	if os.Getenv(cfg.Embedding.APIKeyEnv) != "" {
		remote, err := embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
		if err == nil {
			tiers = append(tiers, embedding.Tier{Name: "remote", Embedder: remote})
		}
	}
	tiers = append(tiers,
		embedding.Tier{Name: "local", Embedder: embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.OllamaURL)},
		embedding.Tier{Name: "hashed", Embedder: embedding.NewHashedEmbedder(cfg.Embedding.Dimension)},
	)
	return embedding.NewChain(tiers...)
}
