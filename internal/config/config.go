package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	GoogleGeminiKey string
	GenerationModel string
	EmbeddingModel  string
	EmbeddingDim    int
}

type PipelineConfig struct {
	TokenTarget    int // chunk size target, in estimated tokens
	EmbedBatchSize int
	TopKContext    int
	GenerationRPM  int // generation worker throughput ceiling per minute
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			GoogleGeminiKey: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			GenerationModel: getEnv("GENERATION_MODEL", "gemini-2.0-flash"),
			EmbeddingModel:  getEnv("EMBEDDING_MODEL", "text-embedding-004"),
			EmbeddingDim:    getEnvAsInt("EMBEDDING_DIM", 768),
		},
		Pipeline: PipelineConfig{
			TokenTarget:    getEnvAsInt("CHUNK_TOKEN_TARGET", 600),
			EmbedBatchSize: getEnvAsInt("EMBED_BATCH_SIZE", 8),
			TopKContext:    getEnvAsInt("TOP_K_CONTEXT", 3),
			GenerationRPM:  getEnvAsInt("GENERATION_RPM", 4),
		},
	}
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
