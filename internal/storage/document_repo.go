package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks eduquest/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"fmt"
)

// DocumentStore defines the interface for document storage operations.
type DocumentStore interface {
	// Insert inserts a document. The document.ID must be set (UUID).
	Insert(ctx context.Context, doc *Document) error
	// GetByID gets a document by ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*Document, error)
	// ListByUser returns a user's documents, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Document, error)
	// Delete removes a document and, via cascade, its chunks.
	// Returns ErrNotFound if the document does not exist.
	Delete(ctx context.Context, id string) error
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Insert inserts a document. The document.ID must be set (UUID).
func (r *DocumentRepo) Insert(ctx context.Context, doc *Document) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO documents (id, user_id, filename) VALUES (?, ?, ?)",
		doc.ID, doc.UserID, doc.Filename,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

// GetByID gets a document by ID. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, filename, created_at FROM documents WHERE id = ?",
		id,
	).Scan(&doc.ID, &doc.UserID, &doc.Filename, &doc.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	return &doc, nil
}

// ListByUser returns a user's documents, newest first.
func (r *DocumentRepo) ListByUser(ctx context.Context, userID string) ([]*Document, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, filename, created_at FROM documents WHERE user_id = ? ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.UserID, &doc.Filename, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

// Delete removes a document and, via cascade, its chunks.
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
