package service

import (
	"context"
	"strings"

	"eduquest/internal/storage"
	"eduquest/internal/verify"
)

// DefaultDocumentName groups saved questions whose source document is unknown.
const DefaultDocumentName = "unassigned document"

// Quiz orchestrates question generation: it loads source text, generates
// candidates, and runs them through the verification pipeline with the
// user's saved questions as the deduplication set.
type Quiz struct {
	generator *Generator
	pipeline  *verify.Pipeline
	chunks    storage.ChunkStore
	questions storage.QuestionStore
}

// NewQuiz creates the quiz service.
func NewQuiz(generator *Generator, pipeline *verify.Pipeline, chunks storage.ChunkStore, questions storage.QuestionStore) *Quiz {
	return &Quiz{
		generator: generator,
		pipeline:  pipeline,
		chunks:    chunks,
		questions: questions,
	}
}

// GenerateResult is the outcome of one generation run.
type GenerateResult struct {
	Questions  []verify.VerifiedQuestion `json:"questions"`
	Stats      verify.Stats              `json:"stats"`
	SourceText string                    `json:"text"`
}

// GenerateForDocument generates and verifies questions from a stored
// document. Returns ErrNotFound if the document has no stored text.
func (s *Quiz) GenerateForDocument(ctx context.Context, userID, documentID string) (*GenerateResult, error) {
	records, err := s.chunks.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, WrapError(ErrNotFound, "document has no content")
	}
	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Text
	}
	return s.GenerateFromText(ctx, userID, strings.Join(texts, " "))
}

// GenerateFromText generates and verifies questions from raw text.
func (s *Quiz) GenerateFromText(ctx context.Context, userID, text string) (*GenerateResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, WrapError(ErrInvalidInput, "source text is empty")
	}

	candidates, err := s.generator.Generate(ctx, text)
	if err != nil {
		return nil, err
	}

	existing, err := s.questions.ListTextsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.pipeline.Verify(ctx, candidates, text, existing)
	if err != nil {
		return nil, WrapError(err, "verification failed")
	}

	return &GenerateResult{
		Questions:  result.Questions,
		Stats:      result.Stats,
		SourceText: text,
	}, nil
}

// SaveQuestions persists a batch of questions for a user.
func (s *Quiz) SaveQuestions(ctx context.Context, userID string, questions []*storage.Question) error {
	if userID == "" {
		return &ValidationError{Field: "user_id", Message: "must not be empty"}
	}
	if len(questions) == 0 {
		return &ValidationError{Field: "questions", Message: "must not be empty"}
	}
	for _, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return &ValidationError{Field: "question", Message: "must not be empty"}
		}
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			return &ValidationError{Field: "correct_answer", Message: "must not be empty"}
		}
		q.UserID = userID
	}
	return s.questions.InsertAll(ctx, questions)
}

// GroupedQuestions returns a user's saved questions grouped by the document
// they came from, newest first within the listing.
func (s *Quiz) GroupedQuestions(ctx context.Context, userID string) (map[string][]*storage.Question, error) {
	questions, err := s.questions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]*storage.Question)
	for _, q := range questions {
		key := q.DocumentName
		if key == "" {
			key = DefaultDocumentName
		}
		grouped[key] = append(grouped[key], q)
	}
	return grouped, nil
}
