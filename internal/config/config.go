package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	CriticBaseURL      string
	CriticAPIKey       string
	CriticPrimaryModel string
	CriticSecondModel  string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	VectorSize         int
	DBPath             string
	QdrantURL          string
	QdrantCollection   string
	ChunkSize          int
	ChunkOverlap       int
	MaxVerified        int
	APIPort            string
	LogLevel           slog.Level
	LogFormat          string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded
// automatically. Environment variables already set take precedence over .env values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:   getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName: getEnv("LLM_MODEL", "gemini-2.0-flash"),
		LLMAPIKey:    os.Getenv("LLM_API_KEY"),
		// CRITIC_API_KEY is deliberately optional: when empty the verification
		// pipeline runs in degraded (RAG-only) mode instead of failing.
		CriticBaseURL:      getEnv("CRITIC_BASE_URL", "https://openrouter.ai/api"),
		CriticAPIKey:       os.Getenv("CRITIC_API_KEY"),
		CriticPrimaryModel: getEnv("CRITIC_PRIMARY_MODEL", "deepseek/deepseek-chat-v3-0324:free"),
		CriticSecondModel:  getEnv("CRITIC_SECONDARY_MODEL", "qwen/qwen3-235b-a22b:free"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "ko-sroberta-multitask"),
		DBPath:             getEnv("DB_PATH", "./data/eduquest.db"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "document_chunks"),
		APIPort:            getEnv("API_PORT", "8000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY is required")
	}

	// Vector size must match the output dimension of the embedding model.
	// The reference sentence encoder produces 768-dimensional vectors; if the
	// model changes, the Qdrant collection must be recreated.
	vectorSize, err := getEnvInt("EMBEDDING_VECTOR_SIZE", 768)
	if err != nil {
		return nil, err
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be greater than 0")
	}
	cfg.VectorSize = vectorSize

	chunkSize, err := getEnvInt("CHUNK_SIZE", 450)
	if err != nil {
		return nil, err
	}
	if chunkSize <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE must be greater than 0")
	}
	cfg.ChunkSize = chunkSize

	chunkOverlap, err := getEnvInt("CHUNK_OVERLAP", 100)
	if err != nil {
		return nil, err
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("CHUNK_OVERLAP must not be negative")
	}
	cfg.ChunkOverlap = chunkOverlap

	maxVerified, err := getEnvInt("MAX_VERIFIED_QUESTIONS", 5)
	if err != nil {
		return nil, err
	}
	if maxVerified <= 0 {
		return nil, fmt.Errorf("MAX_VERIFIED_QUESTIONS must be greater than 0")
	}
	cfg.MaxVerified = maxVerified

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\", got %q", cfg.LogFormat)
	}

	// Create the data directory if it doesn't exist (for the SQLite file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// CriticEnabled reports whether critic adjudication is configured.
// Without a critic credential the pipeline runs in degraded (RAG-only) mode.
func (c *Config) CriticEnabled() bool {
	return c.CriticAPIKey != ""
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

// parseLogLevel converts a level name into a slog.Level.
func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
