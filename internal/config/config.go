package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"ai-twin-be/pkg/apperror"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Vector   VectorConfig
	LLM      LLMConfig
	Pipeline PipelineConfig
	Admin    AdminConfig
	Nats     NatsConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	PipelineLogPath    string
	CorsAllowedOrigins string
	PersonaFile        string // optional override of the embedded persona document
	FAQFile            string // optional override of the embedded FAQ bank
	LogToStderr        bool   // console logs go to stderr, keeping stdout free for MCP stdio
}

type DatabaseConfig struct {
	Connection string // analytics sink; analytics is disabled when empty
}

type RedisConfig struct {
	URL        string // session store; falls back to in-process cache when empty
	SessionTTL time.Duration
}

type VectorConfig struct {
	Provider string // "upstash" or "pgvector"

	// upstash
	RestURL   string
	RestToken string

	// pgvector
	DSN             string
	Table           string
	EmbeddingModel  string
	EmbeddingAPIKey string
	EmbeddingURL    string

	CacheTTL time.Duration
}

type LLMConfig struct {
	Provider string // "openai" (any OpenAI-compatible endpoint, Groq by default)
	BaseURL  string
	APIKey   string
	Model    string
}

type PipelineConfig struct {
	TopK              int
	MinScore          float64
	FAQMaxResults     int
	RetrievalTimeout  time.Duration
	GenerationTimeout time.Duration
	MaxResponseWords  int
}

type AdminConfig struct {
	JwtSecret string
}

type NatsConfig struct {
	URL string // CHAT_COMPLETED events are published when set
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			PipelineLogPath:    getEnv("PIPELINE_LOG_PATH", "logs/pipeline.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3001"),
			PersonaFile:        getEnv("PERSONA_FILE", ""),
			FAQFile:            getEnv("FAQ_FILE", ""),
			LogToStderr:        getEnv("LOG_TO_STDERR", "false") == "true",
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Redis: RedisConfig{
			URL:        getEnv("REDIS_URL", ""),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 7*24*time.Hour),
		},
		Vector: VectorConfig{
			Provider:        strings.ToLower(getEnv("VECTOR_PROVIDER", "upstash")),
			RestURL:         getEnv("UPSTASH_VECTOR_REST_URL", ""),
			RestToken:       getEnv("UPSTASH_VECTOR_REST_TOKEN", ""),
			DSN:             getEnv("PGVECTOR_DSN", ""),
			Table:           getEnv("PGVECTOR_TABLE", "knowledge_chunks"),
			EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			EmbeddingAPIKey: getEnv("EMBEDDING_API_KEY", ""),
			EmbeddingURL:    getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
			CacheTTL:        getEnvAsDuration("VECTOR_CACHE_TTL", 10*time.Minute),
		},
		LLM: LLMConfig{
			Provider: getEnv("LLM_PROVIDER", "openai"),
			BaseURL:  getEnv("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:   getEnv("GROQ_API_KEY", ""),
			Model:    getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
		},
		Pipeline: PipelineConfig{
			TopK:              getEnvAsInt("RAG_TOP_K", 3),
			MinScore:          getEnvAsFloat("RAG_MIN_SCORE", 0.75),
			FAQMaxResults:     getEnvAsInt("FAQ_MAX_RESULTS", 2),
			RetrievalTimeout:  getEnvAsDuration("RETRIEVAL_TIMEOUT", 900*time.Millisecond),
			GenerationTimeout: getEnvAsDuration("GENERATION_TIMEOUT", 50*time.Second),
			MaxResponseWords:  getEnvAsInt("MAX_RESPONSE_WORDS", 100),
		},
		Admin: AdminConfig{
			JwtSecret: getEnv("ADMIN_JWT_SECRET", ""),
		},
		Nats: NatsConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "false") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "ai-twin-backend"),
		},
	}
}

// Validate reports missing provider credentials. The server refuses to start
// when this returns an error.
func (c *Config) Validate() error {
	var missing []string

	if c.LLM.APIKey == "" {
		missing = append(missing, "GROQ_API_KEY")
	}

	switch c.Vector.Provider {
	case "upstash":
		if c.Vector.RestURL == "" {
			missing = append(missing, "UPSTASH_VECTOR_REST_URL")
		}
		if c.Vector.RestToken == "" {
			missing = append(missing, "UPSTASH_VECTOR_REST_TOKEN")
		}
	case "pgvector":
		if c.Vector.DSN == "" {
			missing = append(missing, "PGVECTOR_DSN")
		}
		if c.Vector.EmbeddingAPIKey == "" {
			missing = append(missing, "EMBEDDING_API_KEY")
		}
	default:
		return apperror.New(apperror.KindConfiguration, "unsupported VECTOR_PROVIDER: "+c.Vector.Provider)
	}

	if len(missing) > 0 {
		return apperror.New(apperror.KindConfiguration, "missing provider credentials: "+strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
