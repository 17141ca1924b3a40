package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalEnv := make(map[string]string)
	envVars := []string{
		"LLM_BASE_URL", "LLM_API_KEY", "LLM_MODEL",
		"CRITIC_BASE_URL", "CRITIC_API_KEY", "CRITIC_PRIMARY_MODEL", "CRITIC_SECONDARY_MODEL",
		"EMBEDDING_BASE_URL", "EMBEDDING_MODEL_NAME", "EMBEDDING_VECTOR_SIZE",
		"DB_PATH", "QDRANT_URL", "QDRANT_COLLECTION", "API_PORT",
		"CHUNK_SIZE", "CHUNK_OVERLAP", "MAX_VERIFIED_QUESTIONS",
		"LOG_LEVEL", "LOG_FORMAT",
	}
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "valid config with defaults",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_API_KEY", "test-key")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.VectorSize == 768 &&
					cfg.ChunkSize == 450 &&
					cfg.ChunkOverlap == 100 &&
					cfg.MaxVerified == 5 &&
					cfg.LogLevel == slog.LevelInfo &&
					!cfg.CriticEnabled()
			},
		},
		{
			name:     "missing LLM_API_KEY",
			setupEnv: func(t *testing.T) {},
			wantErr:  true,
		},
		{
			name: "critic enabled when key present",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_API_KEY", "test-key")
				setEnv("CRITIC_API_KEY", "or-key")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.CriticEnabled() &&
					cfg.CriticPrimaryModel != "" &&
					cfg.CriticSecondModel != ""
			},
		},
		{
			name: "invalid EMBEDDING_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_API_KEY", "test-key")
				setEnv("EMBEDDING_VECTOR_SIZE", "not-a-number")
			},
			wantErr: true,
		},
		{
			name: "zero EMBEDDING_VECTOR_SIZE",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_API_KEY", "test-key")
				setEnv("EMBEDDING_VECTOR_SIZE", "0")
			},
			wantErr: true,
		},
		{
			name: "negative CHUNK_OVERLAP",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_API_KEY", "test-key")
				setEnv("CHUNK_OVERLAP", "-1")
			},
			wantErr: true,
		},
		{
			name: "invalid LOG_LEVEL",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_API_KEY", "test-key")
				setEnv("LOG_LEVEL", "verbose")
			},
			wantErr: true,
		},
		{
			name: "invalid LOG_FORMAT",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_API_KEY", "test-key")
				setEnv("LOG_FORMAT", "yaml")
			},
			wantErr: true,
		},
		{
			name: "explicit overrides",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_API_KEY", "test-key")
				setEnv("CHUNK_SIZE", "300")
				setEnv("CHUNK_OVERLAP", "60")
				setEnv("MAX_VERIFIED_QUESTIONS", "3")
				setEnv("LOG_LEVEL", "debug")
				setEnv("LOG_FORMAT", "json")
				setEnv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.ChunkSize == 300 &&
					cfg.ChunkOverlap == 60 &&
					cfg.MaxVerified == 3 &&
					cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range envVars {
				unsetEnv(key)
			}
			tt.setupEnv(t)

			cfg, err := Load()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config check failed: %+v", cfg)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseLogLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
