package config

import (
	"testing"
	"time"

	"ai-twin-be/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RAG_TOP_K", "")
	t.Setenv("RAG_MIN_SCORE", "")
	t.Setenv("RETRIEVAL_TIMEOUT", "")
	t.Setenv("SESSION_TTL", "")

	cfg := Load()

	assert.Equal(t, 3, cfg.Pipeline.TopK)
	assert.InDelta(t, 0.75, cfg.Pipeline.MinScore, 1e-9)
	assert.Equal(t, 900*time.Millisecond, cfg.Pipeline.RetrievalTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.Redis.SessionTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RAG_TOP_K", "5")
	t.Setenv("RAG_MIN_SCORE", "0.8")
	t.Setenv("GENERATION_TIMEOUT", "30s")
	t.Setenv("VECTOR_PROVIDER", "PGVECTOR")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()

	assert.Equal(t, 5, cfg.Pipeline.TopK)
	assert.InDelta(t, 0.8, cfg.Pipeline.MinScore, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.GenerationTimeout)
	assert.Equal(t, "pgvector", cfg.Vector.Provider)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "upstash complete",
			cfg: Config{
				LLM:    LLMConfig{APIKey: "k"},
				Vector: VectorConfig{Provider: "upstash", RestURL: "https://x", RestToken: "t"},
			},
		},
		{
			name:    "missing generation key",
			cfg:     Config{Vector: VectorConfig{Provider: "upstash", RestURL: "https://x", RestToken: "t"}},
			wantErr: "GROQ_API_KEY",
		},
		{
			name:    "missing upstash token",
			cfg:     Config{LLM: LLMConfig{APIKey: "k"}, Vector: VectorConfig{Provider: "upstash", RestURL: "https://x"}},
			wantErr: "UPSTASH_VECTOR_REST_TOKEN",
		},
		{
			name:    "pgvector without embedding key",
			cfg:     Config{LLM: LLMConfig{APIKey: "k"}, Vector: VectorConfig{Provider: "pgvector", DSN: "postgres://"}},
			wantErr: "EMBEDDING_API_KEY",
		},
		{
			name:    "unknown provider",
			cfg:     Config{LLM: LLMConfig{APIKey: "k"}, Vector: VectorConfig{Provider: "faiss"}},
			wantErr: "unsupported VECTOR_PROVIDER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, apperror.KindConfiguration, apperror.KindOf(err))
		})
	}
}
