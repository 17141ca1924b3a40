// Package embed provides the embedding provider used by ingestion and
// verification, with memoization so identical text is never re-embedded
// within a process.
package embed

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"eduquest/internal/chunk"
)

// DefaultCacheSize bounds the memoization cache.
const DefaultCacheSize = 100

// Source produces embeddings for batches of texts. *llm.EmbeddingsClient
// satisfies this interface.
type Source interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider maps text to a fixed-dimension dense vector.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Cache is a memoizing Provider. Input text is normalized (whitespace
// collapsed, bullets stripped) before being used as the cache key and sent
// to the underlying source, so formatting variants share one entry. Eviction
// is least-recently-used with a fixed capacity.
type Cache struct {
	source Source
	cache  *lru.Cache[string, []float32]
}

// NewCache creates a memoizing embedding provider around source.
// size <= 0 falls back to DefaultCacheSize.
func NewCache(source Source, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding cache: %w", err)
	}
	return &Cache{source: source, cache: c}, nil
}

// Embed returns the embedding for text, serving repeats from the cache.
func (c *Cache) Embed(ctx context.Context, text string) ([]float32, error) {
	key := chunk.Normalize(text)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}

	vectors, err := c.source.EmbedTexts(ctx, []string{key})
	if err != nil {
		return nil, fmt.Errorf("failed to embed text: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	c.cache.Add(key, vectors[0])
	return vectors[0], nil
}

// EmbedAll embeds each text in order, sharing the cache across the batch.
func (c *Cache) EmbedAll(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := c.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		result[i] = vec
	}
	return result, nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	return c.cache.Len()
}
