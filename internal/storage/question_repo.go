package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_question_store.go -package=mocks eduquest/internal/storage QuestionStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// QuestionStore defines the interface for saved-question storage operations.
type QuestionStore interface {
	// InsertAll saves a batch of questions in one transaction.
	InsertAll(ctx context.Context, questions []*Question) error
	// ListByUser returns a user's saved questions, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Question, error)
	// ListTextsByUser returns only the question texts for a user, used for
	// deduplication of newly generated questions.
	ListTextsByUser(ctx context.Context, userID string) ([]string, error)
}

// QuestionRepo provides methods for saved-question operations.
// It implements the QuestionStore interface.
type QuestionRepo struct {
	db *sql.DB
}

// NewQuestionRepo creates a new QuestionRepo.
func NewQuestionRepo(db *sql.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// InsertAll saves a batch of questions in one transaction.
func (r *QuestionRepo) InsertAll(ctx context.Context, questions []*Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("failed to encode options: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO questions (user_id, question, options, correct_answer, explanation, type, document_name) VALUES (?, ?, ?, ?, ?, ?, ?)",
			q.UserID, q.Question, string(options), q.CorrectAnswer, q.Explanation, q.Type, q.DocumentName,
		)
		if err != nil {
			return fmt.Errorf("failed to insert question: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit questions: %w", err)
	}
	return nil
}

// ListByUser returns a user's saved questions, newest first.
func (r *QuestionRepo) ListByUser(ctx context.Context, userID string) ([]*Question, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, question, options, correct_answer, explanation, type, document_name, created_at FROM questions WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var questions []*Question
	for rows.Next() {
		var q Question
		var options string
		if err := rows.Scan(&q.ID, &q.UserID, &q.Question, &options, &q.CorrectAnswer, &q.Explanation, &q.Type, &q.DocumentName, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		if options != "" {
			if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
				return nil, fmt.Errorf("failed to decode options: %w", err)
			}
		}
		questions = append(questions, &q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return questions, nil
}

// ListTextsByUser returns only the question texts for a user.
func (r *QuestionRepo) ListTextsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT question FROM questions WHERE user_id = ?",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query question texts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan question text: %w", err)
		}
		texts = append(texts, text)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return texts, nil
}
