package embed

import (
	"context"
	"fmt"
	"testing"
)

// countingSource records how many texts it has been asked to embed.
type countingSource struct {
	calls int
	dim   int
	fail  bool
}

func (s *countingSource) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	s.calls += len(texts)
	if s.fail {
		return nil, fmt.Errorf("embedding backend unavailable")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, s.dim)
		vec[0] = float32(len(text))
		out[i] = vec
	}
	return out, nil
}

func TestCache_MemoizesRepeatedText(t *testing.T) {
	source := &countingSource{dim: 4}
	cache, err := NewCache(source, 10)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	first, err := cache.Embed(context.Background(), "mitochondria produce ATP")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	second, err := cache.Embed(context.Background(), "mitochondria produce ATP")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if source.calls != 1 {
		t.Errorf("source called %d times, want 1", source.calls)
	}
	if len(first) != 4 || len(second) != 4 {
		t.Errorf("vector lengths = %d, %d, want 4", len(first), len(second))
	}
}

func TestCache_NormalizesBeforeCaching(t *testing.T) {
	source := &countingSource{dim: 4}
	cache, err := NewCache(source, 10)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	if _, err := cache.Embed(context.Background(), "hello   world"); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if _, err := cache.Embed(context.Background(), "hello world"); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if source.calls != 1 {
		t.Errorf("source called %d times, want 1 (formatting variants should share an entry)", source.calls)
	}
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	source := &countingSource{dim: 2}
	cache, err := NewCache(source, 2)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	ctx := context.Background()

	for _, text := range []string{"alpha", "beta", "gamma"} {
		if _, err := cache.Embed(ctx, text); err != nil {
			t.Fatalf("Embed(%q) error = %v", text, err)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("cache.Len() = %d, want 2", cache.Len())
	}

	// alpha was evicted; embedding it again hits the source.
	before := source.calls
	if _, err := cache.Embed(ctx, "alpha"); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if source.calls != before+1 {
		t.Errorf("source calls = %d, want %d", source.calls, before+1)
	}
}

func TestCache_PropagatesSourceError(t *testing.T) {
	source := &countingSource{dim: 2, fail: true}
	cache, err := NewCache(source, 10)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	if _, err := cache.Embed(context.Background(), "anything"); err == nil {
		t.Error("expected error from failing source")
	}
	if cache.Len() != 0 {
		t.Errorf("failed embeddings must not be cached, Len() = %d", cache.Len())
	}
}

func TestCache_EmbedAll(t *testing.T) {
	source := &countingSource{dim: 3}
	cache, err := NewCache(source, 10)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	vectors, err := cache.EmbedAll(context.Background(), []string{"one", "two", "one"})
	if err != nil {
		t.Fatalf("EmbedAll() error = %v", err)
	}
	if len(vectors) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vectors))
	}
	if source.calls != 2 {
		t.Errorf("source called %d times, want 2 (duplicate served from cache)", source.calls)
	}
}

func TestNewCache_DefaultSize(t *testing.T) {
	cache, err := NewCache(&countingSource{dim: 1}, 0)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	if cache == nil {
		t.Fatal("expected cache")
	}
}
