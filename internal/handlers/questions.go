package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eduquest/internal/contextutil"
	"eduquest/internal/service"
	"eduquest/internal/storage"
)

// QuizService generates, saves, and lists quiz questions.
type QuizService interface {
	GenerateForDocument(ctx context.Context, userID, documentID string) (*service.GenerateResult, error)
	GenerateFromText(ctx context.Context, userID, text string) (*service.GenerateResult, error)
	SaveQuestions(ctx context.Context, userID string, questions []*storage.Question) error
	GroupedQuestions(ctx context.Context, userID string) (map[string][]*storage.Question, error)
}

// QuestionHandler handles question generation, saving, and listing.
type QuestionHandler struct {
	quiz QuizService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(quiz QuizService) *QuestionHandler {
	return &QuestionHandler{quiz: quiz}
}

// GenerateRequest asks for questions from either a stored document or raw
// text. DocumentID wins when both are set.
type GenerateRequest struct {
	DocumentID string `json:"document_id,omitempty"`
	Text       string `json:"text,omitempty"`
	UserID     string `json:"user_id,omitempty"`
}

// GenerateResponse carries the verified questions and run statistics.
type GenerateResponse struct {
	Success bool `json:"success"`
	*service.GenerateResult
}

// Generate runs the generation and verification pipeline.
func (h *QuestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DocumentID == "" && req.Text == "" {
		writeError(w, r, http.StatusBadRequest, "Either document_id or text is required")
		return
	}
	if req.UserID == "" {
		req.UserID = DefaultUserID
	}

	var result *service.GenerateResult
	var err error
	if req.DocumentID != "" {
		result, err = h.quiz.GenerateForDocument(ctx, req.UserID, req.DocumentID)
	} else {
		result, err = h.quiz.GenerateFromText(ctx, req.UserID, req.Text)
	}
	if err != nil {
		writeServiceError(w, r, err, "Failed to generate questions")
		return
	}

	writeJSON(w, r, http.StatusOK, GenerateResponse{Success: true, GenerateResult: result})
}

// SaveRequest is a batch of questions to persist.
type SaveRequest struct {
	UserID    string              `json:"user_id,omitempty"`
	Questions []SaveQuestionInput `json:"questions"`
}

// SaveQuestionInput is one question in a save request.
type SaveQuestionInput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Type          string   `json:"type"`
	DocumentName  string   `json:"document_name"`
}

// Save persists a batch of questions for later quizzing.
func (h *QuestionHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		req.UserID = DefaultUserID
	}

	questions := make([]*storage.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, &storage.Question{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Type:          q.Type,
			DocumentName:  q.DocumentName,
		})
	}

	if err := h.quiz.SaveQuestions(ctx, req.UserID, questions); err != nil {
		writeServiceError(w, r, err, "Failed to save questions")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"success": true, "saved": len(questions)})
}

// List returns the user's saved questions grouped by source document.
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, r, http.StatusBadRequest, "User ID is required")
		return
	}

	grouped, err := h.quiz.GroupedQuestions(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to list questions")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"grouped_questions": grouped})
}
