package storage

import "time"

// Document represents an uploaded document.
type Document struct {
	ID        string // UUID
	UserID    string
	Filename  string // Original filename without extension
	CreatedAt time.Time
}

// ChunkRecord represents one text chunk of a document, indexed for vector
// search under the same ID as its vector point.
type ChunkRecord struct {
	ID         string // UUID (same as the vector point ID)
	DocumentID string // Foreign key to documents.id
	UserID     string
	ChunkIndex int // Index within document (starts at 0)
	Text       string
}

// Question represents a saved quiz question.
type Question struct {
	ID            int64
	UserID        string
	Question      string
	Options       []string // Stored as a JSON array
	CorrectAnswer string
	Explanation   string
	Type          string
	DocumentName  string
	CreatedAt     time.Time
}
