/**
 * Deployment configuration for the extraction worker
 *
 * Loads configuration from environment variables. This is infrastructure
 * plumbing (queue/storage endpoints, worker sizing) — distinct from
 * PipelineConfig, which travels with each extraction request.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds worker configuration
type Config struct {
	// Redis configuration (queue backend)
	RedisURL string

	// PostgreSQL configuration (result/metadata cache)
	DatabaseURL string

	// Qdrant vector database configuration (chunk-embedding index)
	QdrantURL        string
	QdrantCollection string

	// Embedding provider API key, used when no per-request EmbeddingSection
	// key is supplied
	EmbeddingAPIKey string

	// Worker configuration
	WorkerConcurrency int
	MaxFileSize       int64
	ProcessingTimeout int

	// Tesseract configuration
	TesseractPath string

	// PaddleOCR model cache/hub
	ModelCacheDir string
	ModelHubURL   string

	// Temporary directory for file processing
	TempDir string

	// Node environment
	NodeEnv string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		RedisURL:          getEnvOrDefault("REDIS_URL", "redis://kreuzbergo-redis:6379"),
		DatabaseURL:       getEnvOrDefault("DATABASE_URL", ""),
		QdrantURL:         getEnvOrDefault("QDRANT_URL", "kreuzbergo-qdrant:6334"),
		QdrantCollection:  getEnvOrDefault("QDRANT_COLLECTION", "kreuzbergo_chunks"),
		EmbeddingAPIKey:   getEnvOrDefault("EMBEDDING_API_KEY", ""),
		WorkerConcurrency: getEnvAsIntOrDefault("WORKER_CONCURRENCY", 10),
		MaxFileSize:       getEnvAsInt64OrDefault("MAX_FILE_SIZE", 5368709120), // 5GB
		ProcessingTimeout: getEnvAsIntOrDefault("PROCESSING_TIMEOUT", 300000),  // 5 minutes
		TesseractPath:     getEnvOrDefault("TESSERACT_PATH", "/usr/bin/tesseract"),
		ModelCacheDir:     getEnvOrDefault("MODEL_CACHE_DIR", "/tmp/kreuzbergo-models"),
		ModelHubURL:       getEnvOrDefault("MODEL_HUB_URL", "https://huggingface.co/Kreuzberg/paddleocr-onnx-models/resolve/main"),
		TempDir:           getEnvOrDefault("TEMP_DIR", "/tmp/kreuzbergo"),
		NodeEnv:           getEnvOrDefault("NODE_ENV", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.WorkerConcurrency < 1 || c.WorkerConcurrency > 100 {
		return fmt.Errorf("WORKER_CONCURRENCY must be between 1 and 100, got %d", c.WorkerConcurrency)
	}

	if c.MaxFileSize < 1024 || c.MaxFileSize > 10737418240 { // 1KB to 10GB
		return fmt.Errorf("MAX_FILE_SIZE must be between 1KB and 10GB, got %d", c.MaxFileSize)
	}

	return nil
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrThrow gets environment variable or returns error
func getEnvOrThrow(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("Required environment variable %s is not set", key))
	}
	return value
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsInt64OrDefault gets environment variable as int64 or returns default
func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
