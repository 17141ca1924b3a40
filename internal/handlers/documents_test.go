package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"eduquest/internal/ingest"
	"eduquest/internal/storage"
	storagemocks "eduquest/internal/storage/mocks"
)

type stubIngester struct {
	result      *ingest.Result
	ingestErr   error
	deleteErr   error
	gotUserID   string
	gotFilename string
	gotContent  []byte
	deletedID   string
}

func (s *stubIngester) Ingest(_ context.Context, userID, filename string, content []byte) (*ingest.Result, error) {
	s.gotUserID = userID
	s.gotFilename = filename
	s.gotContent = content
	return s.result, s.ingestErr
}

func (s *stubIngester) Delete(_ context.Context, documentID string) error {
	s.deletedID = documentID
	return s.deleteErr
}

func documentRouter(h *DocumentHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/api/documents", h.Upload)
	r.Get("/api/documents/{userID}", h.List)
	r.Delete("/api/documents/{documentID}", h.Delete)
	return r
}

func multipartUpload(t *testing.T, userID, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if userID != "" {
		if err := writer.WriteField("user_id", userID); err != nil {
			t.Fatalf("WriteField() error = %v", err)
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestDocumentHandler_Upload(t *testing.T) {
	ctrl := gomock.NewController(t)
	ingester := &stubIngester{result: &ingest.Result{DocumentID: "doc-1", ChunkCount: 3}}
	handler := NewDocumentHandler(ingester, storagemocks.NewMockDocumentStore(ctrl))

	body, contentType := multipartUpload(t, "user-1", "notes.txt", "some document text")
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	documentRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.DocumentID != "doc-1" || resp.ChunkCount != 3 {
		t.Errorf("response = %+v", resp)
	}
	if ingester.gotUserID != "user-1" || ingester.gotFilename != "notes.txt" {
		t.Errorf("ingester got user %q file %q", ingester.gotUserID, ingester.gotFilename)
	}
	if string(ingester.gotContent) != "some document text" {
		t.Errorf("ingester got content %q", ingester.gotContent)
	}
}

func TestDocumentHandler_Upload_DefaultUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	ingester := &stubIngester{result: &ingest.Result{DocumentID: "doc-1", ChunkCount: 1}}
	handler := NewDocumentHandler(ingester, storagemocks.NewMockDocumentStore(ctrl))

	body, contentType := multipartUpload(t, "", "notes.txt", "text")
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	documentRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ingester.gotUserID != DefaultUserID {
		t.Errorf("user = %q, want default", ingester.gotUserID)
	}
}

func TestDocumentHandler_Upload_MissingFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewDocumentHandler(&stubIngester{}, storagemocks.NewMockDocumentStore(ctrl))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("user_id", "user-1")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()

	documentRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDocumentHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	documents := storagemocks.NewMockDocumentStore(ctrl)
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	documents.EXPECT().ListByUser(gomock.Any(), "user-1").Return([]*storage.Document{
		{ID: "doc-1", UserID: "user-1", Filename: "biology", CreatedAt: created},
	}, nil)
	handler := NewDocumentHandler(&stubIngester{}, documents)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/user-1", nil)
	rec := httptest.NewRecorder()

	documentRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Documents []DocumentResponse `json:"documents"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Documents) != 1 {
		t.Fatalf("got %d documents, want 1", len(resp.Documents))
	}
	if resp.Documents[0].CreatedAt != "2026-03-14 09:30:00" {
		t.Errorf("CreatedAt = %q", resp.Documents[0].CreatedAt)
	}
}

func TestDocumentHandler_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	ingester := &stubIngester{}
	handler := NewDocumentHandler(ingester, storagemocks.NewMockDocumentStore(ctrl))

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/doc-1", nil)
	rec := httptest.NewRecorder()

	documentRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ingester.deletedID != "doc-1" {
		t.Errorf("deleted %q, want doc-1", ingester.deletedID)
	}
}

func TestDocumentHandler_Delete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewDocumentHandler(&stubIngester{deleteErr: storage.ErrNotFound}, storagemocks.NewMockDocumentStore(ctrl))

	req := httptest.NewRequest(http.MethodDelete, "/api/documents/missing", nil)
	rec := httptest.NewRecorder()

	documentRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
