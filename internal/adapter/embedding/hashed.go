package embedding

import (
	"hash/fnv"
	"math"

	"influencerag/internal/adapter/analyzer"
)

// HashedEmbedder is the last-resort embedding tier. It maps text to a
// fixed-dimension vector by feature hashing: each lowercase token is hashed
// with FNV-1a, the hash picks a dimension, and one hash bit picks the sign.
// The resulting vector is L2-normalized.
//
// The scheme needs no model, no network, and no seed: the same text always
// produces a bit-identical vector, and texts sharing vocabulary land
// contributions in the same dimensions, so their cosine similarity rises
// with token overlap.
type HashedEmbedder struct {
	dimension int
	tokenizer *analyzer.Tokenizer
}

// NewHashedEmbedder creates a hashed embedder with the given dimension.
func NewHashedEmbedder(dimension int) *HashedEmbedder {
	if dimension <= 0 {
		dimension = 1536
	}
	return &HashedEmbedder{
		dimension: dimension,
		tokenizer: analyzer.NewTokenizer(),
	}
}

func (e *HashedEmbedder) Embed(texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = e.embedOne(text)
	}
	return embeddings, nil
}

func (e *HashedEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dimension)

	for _, token := range e.tokenizer.Tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		idx := int(sum % uint64(e.dimension))
		// One extra bit decides the sign so unrelated tokens that collide
		// on a dimension cancel rather than reinforce.
		if (sum>>63)&1 == 1 {
			vec[idx] -= 1.0
		} else {
			vec[idx] += 1.0
		}
	}

	return normalize(vec)
}

// normalize scales the vector to unit length. The zero vector is returned
// as-is so blank text scores zero against everything.
func normalize(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

func (e *HashedEmbedder) Dimension() int {
	return e.dimension
}

func (e *HashedEmbedder) ModelName() string {
	return "hashed"
}
