package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"eduquest/internal/contextutil"
	"eduquest/internal/rag"
)

// QuestionAnswerer answers free-form questions from a user's documents.
type QuestionAnswerer interface {
	Answer(ctx context.Context, userID, question string) (*rag.Answer, error)
}

// AskHandler handles retrieval-grounded question answering.
type AskHandler struct {
	engine QuestionAnswerer
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(engine QuestionAnswerer) *AskHandler {
	return &AskHandler{engine: engine}
}

// AskRequest is a free-form question over the user's documents.
type AskRequest struct {
	Question string `json:"question"`
	UserID   string `json:"user_id,omitempty"`
}

// AskResponse carries the generated answer and its sources.
type AskResponse struct {
	Success bool `json:"success"`
	*rag.Answer
}

// ServeHTTP answers a question from the user's ingested documents.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, r, http.StatusBadRequest, "Question is required")
		return
	}
	if req.UserID == "" {
		req.UserID = DefaultUserID
	}

	answer, err := h.engine.Answer(ctx, req.UserID, req.Question)
	if err != nil {
		logger.ErrorContext(ctx, "failed to answer question", "error", err)
		writeError(w, r, http.StatusBadGateway, "Failed to answer question")
		return
	}

	writeJSON(w, r, http.StatusOK, AskResponse{Success: true, Answer: answer})
}
