package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"eduquest/internal/llm"
	"eduquest/internal/storage"
	storagemocks "eduquest/internal/storage/mocks"
	"eduquest/internal/vectorstore"
	vectormocks "eduquest/internal/vectorstore/mocks"
)

type fixedEmbedder struct{}

func (fixedEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

// chatServer answers every chat completion with reply and captures the last
// prompt it received.
func chatServer(t *testing.T, reply string) (*httptest.Server, *string) {
	t.Helper()
	var lastPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req llm.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode chat request: %v", err)
		}
		if len(req.Messages) > 0 {
			lastPrompt = req.Messages[len(req.Messages)-1].Content
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server, &lastPrompt
}

func TestEngine_Answer(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectors := vectormocks.NewMockVectorStore(ctrl)
	chunks := storagemocks.NewMockChunkStore(ctrl)
	server, lastPrompt := chatServer(t, "Light becomes chemical energy.")

	vectors.EXPECT().
		Search(gomock.Any(), "quiz_chunks", []float32{1, 0}, DefaultTopK,
			map[string]any{vectorstore.MetaUserID: "user-1"}).
		Return([]vectorstore.SearchResult{
			{PointID: "c-1", Score: 0.92},
			{PointID: "c-2", Score: 0.80},
		}, nil)
	chunks.EXPECT().GetByID(gomock.Any(), "c-1").
		Return(&storage.ChunkRecord{ID: "c-1", Text: "Photosynthesis converts light into chemical energy."}, nil)
	chunks.EXPECT().GetByID(gomock.Any(), "c-2").
		Return(&storage.ChunkRecord{ID: "c-2", Text: "Chlorophyll captures sunlight."}, nil)

	engine := NewEngine(fixedEmbedder{}, vectors, chunks, llm.NewClient(server.URL, "key", "model"), "quiz_chunks", 0)

	answer, err := engine.Answer(context.Background(), "user-1", "What does photosynthesis do?")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if answer.Answer != "Light becomes chemical energy." {
		t.Errorf("Answer = %q", answer.Answer)
	}
	if len(answer.Sources) != 2 || answer.Sources[0].ChunkID != "c-1" {
		t.Errorf("Sources = %+v", answer.Sources)
	}
	if !strings.Contains(*lastPrompt, "Photosynthesis converts light") ||
		!strings.Contains(*lastPrompt, "Chlorophyll captures sunlight") {
		t.Errorf("prompt missing retrieved context: %q", *lastPrompt)
	}
	if !strings.Contains(*lastPrompt, "Question: What does photosynthesis do?") {
		t.Errorf("prompt missing question: %q", *lastPrompt)
	}
}

func TestEngine_Answer_NoResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectors := vectormocks.NewMockVectorStore(ctrl)
	chunks := storagemocks.NewMockChunkStore(ctrl)
	server, _ := chatServer(t, "should not be called")

	vectors.EXPECT().
		Search(gomock.Any(), "quiz_chunks", gomock.Any(), DefaultTopK, gomock.Nil()).
		Return(nil, nil)

	engine := NewEngine(fixedEmbedder{}, vectors, chunks, llm.NewClient(server.URL, "key", "model"), "quiz_chunks", 0)

	answer, err := engine.Answer(context.Background(), "", "anything?")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if answer.Answer != NoContextAnswer {
		t.Errorf("Answer = %q, want fallback", answer.Answer)
	}
}

func TestEngine_Answer_SkipsOrphanedPoints(t *testing.T) {
	ctrl := gomock.NewController(t)
	vectors := vectormocks.NewMockVectorStore(ctrl)
	chunks := storagemocks.NewMockChunkStore(ctrl)
	server, _ := chatServer(t, "answer")

	vectors.EXPECT().
		Search(gomock.Any(), "quiz_chunks", gomock.Any(), DefaultTopK, gomock.Any()).
		Return([]vectorstore.SearchResult{
			{PointID: "gone", Score: 0.9},
			{PointID: "c-1", Score: 0.8},
		}, nil)
	chunks.EXPECT().GetByID(gomock.Any(), "gone").Return(nil, storage.ErrNotFound)
	chunks.EXPECT().GetByID(gomock.Any(), "c-1").
		Return(&storage.ChunkRecord{ID: "c-1", Text: "surviving context"}, nil)

	engine := NewEngine(fixedEmbedder{}, vectors, chunks, llm.NewClient(server.URL, "key", "model"), "quiz_chunks", 0)

	answer, err := engine.Answer(context.Background(), "user-1", "question?")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if len(answer.Sources) != 1 || answer.Sources[0].ChunkID != "c-1" {
		t.Errorf("Sources = %+v, want only the surviving chunk", answer.Sources)
	}
}

func TestEngine_Answer_EmptyQuestion(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := NewEngine(fixedEmbedder{}, vectormocks.NewMockVectorStore(ctrl),
		storagemocks.NewMockChunkStore(ctrl), llm.NewClient("http://unused", "key", "model"), "quiz_chunks", 0)

	if _, err := engine.Answer(context.Background(), "user-1", "   "); err == nil {
		t.Error("expected error for empty question")
	}
}
