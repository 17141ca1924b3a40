// Package rag answers free-form questions from a user's ingested documents
// by retrieving the most similar chunks and prompting an LLM with them.
package rag

import (
	"context"
	"fmt"
	"strings"

	"eduquest/internal/contextutil"
	"eduquest/internal/embed"
	"eduquest/internal/llm"
	"eduquest/internal/storage"
	"eduquest/internal/vectorstore"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 3

// NoContextAnswer is returned when retrieval finds nothing relevant.
const NoContextAnswer = "No relevant context was found for this question."

// Engine retrieves context and generates answers.
type Engine struct {
	embedder   embed.Provider
	vectors    vectorstore.VectorStore
	chunks     storage.ChunkStore
	client     *llm.Client
	collection string
	topK       int
}

// NewEngine creates a RAG answering engine. topK <= 0 means DefaultTopK.
func NewEngine(
	embedder embed.Provider,
	vectors vectorstore.VectorStore,
	chunks storage.ChunkStore,
	client *llm.Client,
	collection string,
	topK int,
) *Engine {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Engine{
		embedder:   embedder,
		vectors:    vectors,
		chunks:     chunks,
		client:     client,
		collection: collection,
		topK:       topK,
	}
}

// Source identifies one retrieved chunk used to ground an answer.
type Source struct {
	ChunkID string  `json:"chunk_id"`
	Score   float32 `json:"score"`
}

// Answer is a generated answer with its retrieval provenance.
type Answer struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []Source `json:"sources,omitempty"`
}

// Answer generates an answer to question from the user's documents. A userID
// of "" searches across all users.
func (e *Engine) Answer(ctx context.Context, userID, question string) (*Answer, error) {
	logger := contextutil.LoggerFromContext(ctx)
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is empty")
	}

	queryVec, err := e.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	var filters map[string]any
	if userID != "" {
		filters = map[string]any{vectorstore.MetaUserID: userID}
	}
	results, err := e.vectors.Search(ctx, e.collection, queryVec, e.topK, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search context: %w", err)
	}
	if len(results) == 0 {
		return &Answer{Question: question, Answer: NoContextAnswer}, nil
	}

	var contexts []string
	var sources []Source
	for _, result := range results {
		record, err := e.chunks.GetByID(ctx, result.PointID)
		if err != nil {
			// A point may outlive its SQLite row (e.g. mid-delete); skip it.
			logger.Warn("retrieved point has no stored chunk", "point_id", result.PointID, "error", err)
			continue
		}
		contexts = append(contexts, record.Text)
		sources = append(sources, Source{ChunkID: result.PointID, Score: result.Score})
	}
	if len(contexts) == 0 {
		return &Answer{Question: question, Answer: NoContextAnswer}, nil
	}

	prompt := fmt.Sprintf("%s\n\nQuestion: %s\nAnswer:", strings.Join(contexts, "\n\n"), question)
	answer, err := e.client.Chat(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	return &Answer{
		Question: question,
		Answer:   strings.TrimSpace(answer),
		Sources:  sources,
	}, nil
}
