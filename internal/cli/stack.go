package cli

import (
	"fmt"
	"os"

	"influencerag/config"
	"influencerag/internal/adapter/embedding"
	"influencerag/internal/adapter/llm"
	"influencerag/internal/adapter/retriever"
	"influencerag/internal/adapter/store"
	"influencerag/internal/port"
)

// buildEmbedder assembles the embedding chain for the configured provider.
// "auto" stacks every tier that can be constructed, so a missing API key or
// an unreachable local server degrades instead of failing.
func buildEmbedder(cfg *config.Config) (*embedding.Chain, error) {
	var tiers []embedding.Tier

	switch cfg.Embedding.Provider {
	case "auto", "":
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
	case "openai":
		remote, err := embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		tiers = append(tiers, embedding.Tier{Name: "remote", Embedder: remote})
	case "ollama":
		tiers = append(tiers, embedding.Tier{Name: "local", Embedder: embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.OllamaURL)})
	case "hashed":
		tiers = append(tiers, embedding.Tier{Name: "hashed", Embedder: embedding.NewHashedEmbedder(cfg.Embedding.Dimension)})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}

	return embedding.NewChain(tiers...)
}

// buildRetriever composes semantic retrieval over the store, wrapped with
// the keyword fallback when it is enabled.
func buildRetriever(cfg *config.Config, st port.VectorStore, embedder port.Embedder) port.Retriever {
	var r port.Retriever = retriever.NewSemanticRetriever(st, embedder)
	if cfg.Retrieve.KeywordFallback {
		if lister, ok := st.(retriever.RecordLister); ok {
			r = retriever.NewKeywordFallbackRetriever(r, lister)
		}
	}
	return r
}

// buildLLM returns the configured generation client, or nil when no model
// is configured or its API key is absent. A nil client means deterministic
// answers only.
func buildLLM(llmCfg config.LLMConfig) port.LLM {
	if llmCfg.Model == "" {
		return nil
	}
	client, err := llm.NewOpenAIClient(llmCfg.APIKeyEnv, llmCfg.Model, llmCfg.BaseURL)
	if err != nil {
		return nil
	}
	return client
}

// openStore opens the configured backend at the resolved store directory.
// A fresh store is opened with its dimension unset so the first committed
// batch establishes it; pre-seeding the chain's preferred dimension here
// would reject ingestion whenever a fallback tier with a different
// dimension ends up serving.
func openStore(cfg *config.Config) (port.VectorStore, string, error) {
	dir := cfg.StoreDir(GetRootDir())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, "", fmt.Errorf("failed to create store directory: %w", err)
	}
	st, err := store.Open(cfg.Store.Backend, dir, 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open store: %w", err)
	}
	return st, dir, nil
}
