package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the influencer assistant.
type Config struct {
	Ingest    IngestConfig    `yaml:"ingest"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Store     StoreConfig     `yaml:"store"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// IngestConfig holds dataset ingestion configuration.
type IngestConfig struct {
	Includes    []string `yaml:"includes"`
	Excludes    []string `yaml:"excludes"`
	MaxChunkLen int      `yaml:"max_chunk_len"` // max characters per sample_post chunk
	BatchSize   int      `yaml:"batch_size"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK            int  `yaml:"top_k"`
	KeywordFallback bool `yaml:"keyword_fallback"` // substring match when all scores are zero
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "auto", "openai", "ollama", "hashed"
	Model     string `yaml:"model"`       // e.g. "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // environment variable for the API key
	BaseURL   string `yaml:"base_url"`    // override for OpenAI-compatible endpoints
	OllamaURL string `yaml:"ollama_url"`  // local model server
	Dimension int    `yaml:"dimension"`   // hashed-tier vector dimension
}

// LLMConfig holds answer-generation configuration. An empty model disables
// the remote path entirely; answers then use the deterministic composer.
type LLMConfig struct {
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
}

// StoreConfig holds vector store configuration.
type StoreConfig struct {
	Backend string `yaml:"backend"` // "memory" or "bolt"
	Dir     string `yaml:"dir"`     // persistence directory
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Ingest: IngestConfig{
			Includes:    []string{"**/*.json", "**/*.csv"},
			Excludes:    []string{"**/.*/**"},
			MaxChunkLen: 280,
			BatchSize:   100,
		},
		Retrieve: RetrieveConfig{
			TopK:            3,
			KeywordFallback: true,
		},
		Embedding: EmbeddingConfig{
			Provider:  "auto",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			OllamaURL: "http://localhost:11434/v1",
			Dimension: 1536,
		},
		LLM: LLMConfig{
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Store: StoreConfig{
			Backend: "memory",
			Dir:     ".assistant/store",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for assistant.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "assistant.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".assistant", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// StoreDir resolves the persistence directory relative to the root dir.
func (c *Config) StoreDir(root string) string {
	if filepath.IsAbs(c.Store.Dir) {
		return c.Store.Dir
	}
	return filepath.Join(root, c.Store.Dir)
}

// EnsureAssistantDir ensures the .assistant directory exists.
func EnsureAssistantDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".assistant"), 0755)
}
