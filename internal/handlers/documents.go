package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eduquest/internal/contextutil"
	"eduquest/internal/ingest"
	"eduquest/internal/storage"
)

// maxUploadBytes caps uploaded document size at 32 MiB.
const maxUploadBytes = 32 << 20

// DocumentIngester ingests and removes documents.
type DocumentIngester interface {
	Ingest(ctx context.Context, userID, filename string, content []byte) (*ingest.Result, error)
	Delete(ctx context.Context, documentID string) error
}

// DocumentHandler handles document upload, listing, and deletion.
type DocumentHandler struct {
	ingester  DocumentIngester
	documents storage.DocumentStore
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(ingester DocumentIngester, documents storage.DocumentStore) *DocumentHandler {
	return &DocumentHandler{ingester: ingester, documents: documents}
}

// UploadResponse is the result of a document upload.
type UploadResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
}

// Upload ingests a document from a multipart form. The file goes under the
// "file" field; "user_id" identifies the owner.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		logger.WarnContext(ctx, "invalid multipart form", "error", err)
		writeError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "missing file in upload", "error", err)
		writeError(w, r, http.StatusBadRequest, "A file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		logger.ErrorContext(ctx, "failed to read upload", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to read file")
		return
	}
	if len(content) > maxUploadBytes {
		writeError(w, r, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	userID := r.FormValue("user_id")
	if userID == "" {
		userID = DefaultUserID
	}

	result, err := h.ingester.Ingest(ctx, userID, header.Filename, content)
	if err != nil {
		logger.ErrorContext(ctx, "document ingestion failed", "filename", header.Filename, "error", err)
		writeError(w, r, http.StatusUnprocessableEntity, "Failed to process document")
		return
	}

	writeJSON(w, r, http.StatusOK, UploadResponse{
		Success:    true,
		DocumentID: result.DocumentID,
		Filename:   header.Filename,
		ChunkCount: result.ChunkCount,
	})
}

// DocumentResponse is one document in a listing.
type DocumentResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	CreatedAt  string `json:"created_at"`
}

// List returns the user's documents, newest first.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		writeError(w, r, http.StatusBadRequest, "User ID is required")
		return
	}

	docs, err := h.documents.ListByUser(ctx, userID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "user_id", userID, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	responses := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		responses = append(responses, DocumentResponse{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			CreatedAt:  doc.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"documents": responses})
}

// Delete removes a document, its chunks, and its vectors.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	documentID := chi.URLParam(r, "documentID")
	if documentID == "" {
		writeError(w, r, http.StatusBadRequest, "Document ID is required")
		return
	}

	if err := h.ingester.Delete(ctx, documentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Document not found")
			return
		}
		logger.ErrorContext(ctx, "failed to delete document", "document_id", documentID, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"success": true})
}
