package chunker

import "strings"

// PostChunker splits long sample posts into chunks of at most maxLen
// characters, breaking only at word boundaries. Text at or under the limit
// passes through as a single chunk.
type PostChunker struct {
	maxLen int
}

func NewPostChunker(maxLen int) *PostChunker {
	if maxLen <= 0 {
		maxLen = 280
	}
	return &PostChunker{maxLen: maxLen}
}

// Chunk splits text into word-boundary chunks. Empty text yields no chunks.
// A single word longer than maxLen becomes its own oversized chunk rather
// than being split mid-word.
func (c *PostChunker) Chunk(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.maxLen {
		return []string{text}
	}

	var chunks []string
	var current []string
	length := 0

	for _, word := range strings.Fields(text) {
		wordLen := len(word)
		if length > 0 {
			wordLen++ // joining space
		}
		if length+wordLen > c.maxLen && length > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = []string{word}
			length = len(word)
		} else {
			current = append(current, word)
			length += wordLen
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}

// MaxLen returns the configured chunk size.
func (c *PostChunker) MaxLen() int {
	return c.maxLen
}
