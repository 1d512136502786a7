package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 120 * time.Second //generation blocks until the model finishes
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//vectorDB
	QdrantUseTLS   = false
	QdrantPoolSize = 1 //2-5 is preferred for prod according to documentation

	//TODO:this will differ per embedding model if we ever run more than one
	EmbeddingOutputDimensionality int32 = 1536 //Titan embed output size

	//ingestion
	IngestBatchSize    = 100
	PageExtractTimeout = 10 * time.Second
	MaxUploadSize      = 32 << 20 //32mb

	//llm
	ModelTemperature float32 = 0.7
	ModelMaxTokens           = 500
	ModelContext             = "You are a helpful assistant answering questions about the user's documents. " +
		"Answer using the provided context. If the context does not contain the answer, say you don't know."

	//provider ids for MODEL_PROVIDER
	ProviderBedrock = "bedrock"
	ProviderGemini  = "gemini"
	ProviderOpenAI  = "openai"

	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIModelName      = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"
)

// Settings is everything derived from the environment. It is populated once by
// Load in main and read-only afterwards.
type Settings struct {
	AWSAccessKeyID          string
	AWSSecretAccessKey      string
	AWSRegion               string
	BedrockModelID          string
	BedrockEmbeddingModelID string

	QdrantHost           string
	QdrantPort           int
	QdrantCollectionName string

	ChunkSize    int
	ChunkOverlap int

	SearchTopK           int
	SearchScoreThreshold float32

	APIHost string
	APIPort int

	ModelProvider string
	GeminiAPIKey  string
	OpenAIAPIKey  string

	//empty token disables bearer auth
	AuthToken string
}

func (s Settings) ListenAddr() string {
	return s.APIHost + ":" + strconv.Itoa(s.APIPort)
}

var settings Settings

// Load reads an optional .env file plus the process environment.
func Load() Settings {
	_ = godotenv.Load() //.env is optional, a real environment always wins

	settings = Settings{
		AWSAccessKeyID:          os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:      os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:               getEnv("AWS_REGION", "us-east-1"),
		BedrockModelID:          getEnv("BEDROCK_MODEL_ID", "anthropic.claude-v2"),
		BedrockEmbeddingModelID: getEnv("BEDROCK_EMBEDDING_MODEL_ID", "amazon.titan-embed-text-v1"),

		QdrantHost:           getEnv("QDRANT_HOST", "localhost"),
		QdrantPort:           getEnvInt("QDRANT_PORT", 6334), //grpc port, the go client has no REST mode
		QdrantCollectionName: getEnv("QDRANT_COLLECTION_NAME", "documents"),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 200),

		SearchTopK:           getEnvInt("SEARCH_TOP_K", 3),
		SearchScoreThreshold: float32(getEnvFloat("SEARCH_SCORE_THRESHOLD", 0.7)),

		APIHost: getEnv("API_HOST", "0.0.0.0"),
		APIPort: getEnvInt("API_PORT", 8000),

		ModelProvider: getEnv("MODEL_PROVIDER", ProviderBedrock),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),

		AuthToken: os.Getenv("AUTH_TOKEN"),
	}
	return settings
}

// Get returns the Settings populated by Load.
func Get() Settings {
	return settings
}

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
