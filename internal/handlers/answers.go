package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"eduquest/internal/contextutil"
	"eduquest/internal/service"
)

// AnswerGrader grades submitted answers.
type AnswerGrader interface {
	Grade(ctx context.Context, answers []service.Answer) (*service.GradeReport, error)
	GradeOne(ctx context.Context, answer service.Answer) (*service.AnswerResult, error)
}

// AnswerHandler handles answer grading.
type AnswerHandler struct {
	grader AnswerGrader
}

// NewAnswerHandler creates a new AnswerHandler.
func NewAnswerHandler(grader AnswerGrader) *AnswerHandler {
	return &AnswerHandler{grader: grader}
}

// CheckRequest is a batch of answers to grade.
type CheckRequest struct {
	Answers []service.Answer `json:"answers"`
}

// Check grades a batch of submitted answers.
func (h *AnswerHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Answers) == 0 {
		writeError(w, r, http.StatusBadRequest, "At least one answer is required")
		return
	}

	report, err := h.grader.Grade(ctx, req.Answers)
	if err != nil {
		writeServiceError(w, r, err, "Failed to grade answers")
		return
	}

	writeJSON(w, r, http.StatusOK, report)
}

// CheckOneResponse is the graded outcome for a single answer.
type CheckOneResponse struct {
	Success    bool                  `json:"success"`
	Evaluation *service.AnswerResult `json:"evaluation"`
}

// CheckOne grades a single submitted answer.
func (h *AnswerHandler) CheckOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var answer service.Answer
	if err := json.NewDecoder(r.Body).Decode(&answer); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if answer.Question == "" || answer.UserAnswer == "" || answer.CorrectAnswer == "" {
		writeError(w, r, http.StatusBadRequest, "question, user_answer, and correct_answer are required")
		return
	}

	result, err := h.grader.GradeOne(ctx, answer)
	if err != nil {
		writeServiceError(w, r, err, "Failed to grade answer")
		return
	}

	writeJSON(w, r, http.StatusOK, CheckOneResponse{Success: true, Evaluation: result})
}
