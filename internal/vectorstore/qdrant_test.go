package vectorstore

import (
	"context"
	"net/url"
	"strconv"
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

// TestNewQdrantStore_URLParsing tests URL parsing logic without creating a
// real client, to avoid connection warnings in unit tests.
func TestNewQdrantStore_URLParsing(t *testing.T) {
	tests := []struct {
		name     string
		urlStr   string
		wantHost string
		wantPort int
	}{
		{
			name:     "valid URL",
			urlStr:   "http://localhost:6333",
			wantHost: "localhost",
			wantPort: 6334, // gRPC port is HTTP port + 1
		},
		{
			name:     "URL with custom port",
			urlStr:   "http://localhost:9000",
			wantHost: "localhost",
			wantPort: 9001,
		},
		{
			name:     "URL without port",
			urlStr:   "http://qdrant.internal",
			wantHost: "qdrant.internal",
			wantPort: 6334, // Default
		},
		{
			name:     "URL without hostname",
			urlStr:   "http://:6333",
			wantHost: "localhost", // Defaults to localhost
			wantPort: 6334,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsedURL, err := url.Parse(tt.urlStr)
			if err != nil {
				t.Fatalf("Failed to parse URL: %v", err)
			}

			// Mirror the parsing logic NewQdrantStore uses.
			host := parsedURL.Hostname()
			if host == "" {
				host = "localhost"
			}
			port := 6334
			if parsedURL.Port() != "" {
				if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
					port = httpPort + 1
				}
			}

			if host != tt.wantHost {
				t.Errorf("host = %q, want %q", host, tt.wantHost)
			}
			if port != tt.wantPort {
				t.Errorf("port = %d, want %d", port, tt.wantPort)
			}
		})
	}
}

func TestNewQdrantStore_InvalidURL(t *testing.T) {
	_, err := NewQdrantStore("://invalid")
	if err == nil {
		t.Error("NewQdrantStore() expected error for invalid URL")
	}
}

func TestQdrantStore_Upsert_EmptyPoints(t *testing.T) {
	store := &QdrantStore{}
	if err := store.Upsert(context.Background(), "test", nil); err != nil {
		t.Errorf("Upsert() with no points should be a no-op, got: %v", err)
	}
}

func TestQdrantStore_Delete_EmptyIDs(t *testing.T) {
	store := &QdrantStore{}
	if err := store.Delete(context.Background(), "test", nil); err != nil {
		t.Errorf("Delete() with no IDs should be a no-op, got: %v", err)
	}
}

func TestQdrantStore_Search_InvalidK(t *testing.T) {
	store := &QdrantStore{}
	_, err := store.Search(context.Background(), "test", []float32{0.1}, 0, nil)
	if err == nil {
		t.Error("Search() with k=0 should error")
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"user_id":     {Kind: &qdrant.Value_StringValue{StringValue: "user-1"}},
		"chunk_index": {Kind: &qdrant.Value_IntegerValue{IntegerValue: 3}},
		"score":       {Kind: &qdrant.Value_DoubleValue{DoubleValue: 0.5}},
		"flag":        {Kind: &qdrant.Value_BoolValue{BoolValue: true}},
		"nil":         nil,
	}

	result := convertPayloadToMap(payload)

	if result["user_id"] != "user-1" {
		t.Errorf("user_id = %v", result["user_id"])
	}
	if result["chunk_index"] != int64(3) {
		t.Errorf("chunk_index = %v", result["chunk_index"])
	}
	if result["score"] != 0.5 {
		t.Errorf("score = %v", result["score"])
	}
	if result["flag"] != true {
		t.Errorf("flag = %v", result["flag"])
	}
	if _, ok := result["nil"]; ok {
		t.Error("nil values should be skipped")
	}
}
