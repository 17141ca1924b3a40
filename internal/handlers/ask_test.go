package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eduquest/internal/rag"
)

type stubAnswerer struct {
	answer func(ctx context.Context, userID, question string) (*rag.Answer, error)
}

func (s *stubAnswerer) Answer(ctx context.Context, userID, question string) (*rag.Answer, error) {
	return s.answer(ctx, userID, question)
}

func TestAskHandler(t *testing.T) {
	engine := &stubAnswerer{
		answer: func(_ context.Context, userID, question string) (*rag.Answer, error) {
			if userID != "user-1" {
				t.Errorf("user = %q", userID)
			}
			return &rag.Answer{
				Question: question,
				Answer:   "Light becomes chemical energy.",
				Sources:  []rag.Source{{ChunkID: "c-1", Score: 0.9}},
			}, nil
		},
	}
	handler := NewAskHandler(engine)

	payload := `{"question": "What does photosynthesis do?", "user_id": "user-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(payload))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp AskResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.Answer.Answer != "Light becomes chemical energy." {
		t.Errorf("response = %+v", resp)
	}
	if len(resp.Sources) != 1 || resp.Sources[0].ChunkID != "c-1" {
		t.Errorf("Sources = %+v", resp.Sources)
	}
}

func TestAskHandler_DefaultUser(t *testing.T) {
	engine := &stubAnswerer{
		answer: func(_ context.Context, userID, question string) (*rag.Answer, error) {
			if userID != DefaultUserID {
				t.Errorf("user = %q, want default", userID)
			}
			return &rag.Answer{Question: question, Answer: "ok"}, nil
		},
	}
	handler := NewAskHandler(engine)

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question": "q?"}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAskHandler_EmptyQuestion(t *testing.T) {
	handler := NewAskHandler(&stubAnswerer{})

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question": ""}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAskHandler_EngineError(t *testing.T) {
	engine := &stubAnswerer{
		answer: func(context.Context, string, string) (*rag.Answer, error) {
			return nil, errors.New("failed to embed question")
		},
	}
	handler := NewAskHandler(engine)

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question": "q?"}`))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}
