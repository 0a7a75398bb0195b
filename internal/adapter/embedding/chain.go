package embedding

import (
	"fmt"
	"strings"
	"sync"

	"influencerag/internal/port"
)

// Tier is one named strategy in the fallback chain.
type Tier struct {
	Name     string
	Embedder port.Embedder
}

// Chain tries each embedding tier in order and returns the first result.
// The intended order is remote API, local model server, hashed fallback;
// with the hashed tier last a chain never fails as a whole. Which tier
// served the most recent call is recorded for diagnostics only.
type Chain struct {
	tiers []Tier

	mu         sync.Mutex
	activeTier string
}

// NewChain creates a fallback chain over the given tiers. At least one
// tier is required; the caller is expected to put an always-available
// tier (the hashed embedder) last.
func NewChain(tiers ...Tier) (*Chain, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("embedding chain requires at least one tier")
	}
	return &Chain{tiers: tiers}, nil
}

func (c *Chain) Embed(texts []string) ([][]float32, error) {
	var lastErr error
	for _, tier := range c.tiers {
		embeddings, err := tier.Embedder.Embed(texts)
		if err != nil {
			lastErr = err
			continue
		}

		c.mu.Lock()
		c.activeTier = tier.Name
		c.mu.Unlock()
		return embeddings, nil
	}
	return nil, fmt.Errorf("all embedding tiers failed: %w", lastErr)
}

// ActiveTier returns the name of the tier that served the last Embed call,
// or "" if no call has completed yet.
func (c *Chain) ActiveTier() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeTier
}

// Dimension returns the dimension of the first (preferred) tier. The
// vector store re-checks dimensions on every add, so a tier switch on a
// non-empty store surfaces there as a dimension mismatch.
func (c *Chain) Dimension() int {
	return c.tiers[0].Embedder.Dimension()
}

func (c *Chain) ModelName() string {
	names := make([]string, len(c.tiers))
	for i, tier := range c.tiers {
		names[i] = tier.Name
	}
	return strings.Join(names, ">")
}
