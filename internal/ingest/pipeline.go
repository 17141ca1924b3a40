package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"eduquest/internal/chunk"
	"eduquest/internal/contextutil"
	"eduquest/internal/embed"
	"eduquest/internal/storage"
	"eduquest/internal/vectorstore"
)

// Pipeline ingests documents: extract text, chunk, embed, persist chunks to
// SQLite, and index vectors in the vector store under the same chunk IDs.
type Pipeline struct {
	documents  storage.DocumentStore
	chunks     storage.ChunkStore
	vectors    vectorstore.VectorStore
	embedder   embed.Provider
	splitter   *chunk.Splitter
	collection string
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	documents storage.DocumentStore,
	chunks storage.ChunkStore,
	vectors vectorstore.VectorStore,
	embedder embed.Provider,
	splitter *chunk.Splitter,
	collection string,
) *Pipeline {
	if splitter == nil {
		splitter = chunk.NewSplitter(0, -1)
	}
	return &Pipeline{
		documents:  documents,
		chunks:     chunks,
		vectors:    vectors,
		embedder:   embedder,
		splitter:   splitter,
		collection: collection,
	}
}

// Result summarizes one ingestion.
type Result struct {
	DocumentID string
	ChunkCount int
}

// Ingest processes one uploaded file for a user.
func (p *Pipeline) Ingest(ctx context.Context, userID, filename string, content []byte) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	raw, err := ExtractText(filename, content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}
	normalized := chunk.Normalize(raw)
	if normalized == "" {
		return nil, fmt.Errorf("document contains no extractable text")
	}

	parts := p.splitter.Split(normalized)
	documentID := uuid.New().String()
	baseName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	doc := &storage.Document{
		ID:       documentID,
		UserID:   userID,
		Filename: baseName,
	}
	if err := p.documents.Insert(ctx, doc); err != nil {
		return nil, err
	}

	points := make([]vectorstore.Point, 0, len(parts))
	for i, part := range parts {
		vec, err := p.embedder.Embed(ctx, part)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}

		chunkID := uuid.New().String()
		record := &storage.ChunkRecord{
			ID:         chunkID,
			DocumentID: documentID,
			UserID:     userID,
			ChunkIndex: i,
			Text:       part,
		}
		if err := p.chunks.Insert(ctx, record); err != nil {
			return nil, err
		}

		points = append(points, vectorstore.Point{
			ID:  chunkID,
			Vec: vec,
			Meta: map[string]any{
				vectorstore.MetaUserID:     userID,
				vectorstore.MetaDocumentID: documentID,
				vectorstore.MetaChunkIndex: i,
			},
		})
	}

	if err := p.vectors.Upsert(ctx, p.collection, points); err != nil {
		return nil, err
	}

	logger.Info("document ingested", "document_id", documentID, "user_id", userID, "chunks", len(parts))
	return &Result{DocumentID: documentID, ChunkCount: len(parts)}, nil
}

// Delete removes a document, its chunks, and their vector points.
func (p *Pipeline) Delete(ctx context.Context, documentID string) error {
	ids, err := p.chunks.ListIDsByDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if err := p.vectors.Delete(ctx, p.collection, ids); err != nil {
		return err
	}
	// Chunk rows cascade with the document.
	return p.documents.Delete(ctx, documentID)
}

// DocumentText reassembles the full text of a document from its stored
// chunks, in order. Returns storage.ErrNotFound for an unknown document.
func (p *Pipeline) DocumentText(ctx context.Context, documentID string) (string, error) {
	records, err := p.chunks.ListByDocument(ctx, documentID)
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return "", storage.ErrNotFound
	}
	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.Text
	}
	return strings.Join(texts, " "), nil
}
