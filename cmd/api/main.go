package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"eduquest/internal/chunk"
	"eduquest/internal/config"
	"eduquest/internal/embed"
	"eduquest/internal/http"
	"eduquest/internal/ingest"
	"eduquest/internal/llm"
	"eduquest/internal/rag"
	"eduquest/internal/service"
	"eduquest/internal/storage"
	"eduquest/internal/vectorstore"
	"eduquest/internal/verify"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	documentRepo := storage.NewDocumentRepo(db)
	chunkRepo := storage.NewChunkRepo(db)
	questionRepo := storage.NewQuestionRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.VectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.VectorSize)

	// Validate embedding client vector size (fail-fast)
	embeddings := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.VectorSize)
	testEmbeddings, err := embeddings.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.VectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.VectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.VectorSize)

	embedder, err := embed.NewCache(embeddings, embed.DefaultCacheSize)
	if err != nil {
		log.Fatalf("Failed to create embedding cache: %v", err)
	}

	// Create LLM clients (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	var critic *verify.Critic
	if cfg.CriticEnabled() {
		criticClient := llm.NewClient(cfg.CriticBaseURL, cfg.CriticAPIKey, cfg.CriticPrimaryModel)
		criticClient.ExtraHeaders = map[string]string{
			"HTTP-Referer": "http://localhost:" + cfg.APIPort,
			"X-Title":      "EduQuest",
		}
		critic = verify.NewCritic(criticClient, cfg.CriticPrimaryModel, cfg.CriticSecondModel)
		slog.Info("Critic adjudication enabled",
			"primary_model", cfg.CriticPrimaryModel,
			"secondary_model", cfg.CriticSecondModel,
		)
	} else {
		slog.Warn("No critic credential configured, verification runs in degraded mode")
	}

	splitter := chunk.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	pipeline := verify.NewPipeline(embedder, critic, splitter, verify.Options{MaxResults: cfg.MaxVerified})

	ingestPipeline := ingest.NewPipeline(documentRepo, chunkRepo, vectorStore, embedder, splitter, cfg.QdrantCollection)

	generator := service.NewGenerator(llmClient)
	grader := service.NewGrader(llmClient)
	quiz := service.NewQuiz(generator, pipeline, chunkRepo, questionRepo)

	ragEngine := rag.NewEngine(embedder, vectorStore, chunkRepo, llmClient, cfg.QdrantCollection, 0)
	slog.Info("RAG engine initialized")

	// Create router with dependencies
	deps := &http.Deps{
		Quiz:       quiz,
		Grader:     grader,
		Ingester:   ingestPipeline,
		Answerer:   ragEngine,
		Documents:  documentRepo,
		Health:     vectorStore,
		Collection: cfg.QdrantCollection,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
