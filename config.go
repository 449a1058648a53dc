package imageflow

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the environment-driven configuration for providers and
// storage backends.
type Config struct {
	// OpenAI-compatible API
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	OpenAIOrgID   string        `env:"OPENAI_ORG_ID"`
	OpenAITimeout time.Duration `env:"OPENAI_TIMEOUT" envDefault:"2m"`

	// Gemini API
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	// Routing
	DefaultModel string `env:"IMAGEFLOW_DEFAULT_MODEL"`

	// Storage Backend Selection (empty disables storage)
	StorageBackend string `env:"IMAGEFLOW_STORAGE_BACKEND"` // Options: "s3" or "local"

	// Local Storage Configuration
	LocalStoragePath    string `env:"IMAGEFLOW_LOCAL_STORAGE_PATH"`
	LocalStorageBaseURL string `env:"IMAGEFLOW_LOCAL_STORAGE_BASE_URL"`

	// S3 Storage Configuration
	S3Endpoint      string `env:"IMAGEFLOW_S3_ENDPOINT"`
	S3PublicBaseURL string `env:"IMAGEFLOW_S3_PUBLIC_BASE_URL"`
	S3Region        string `env:"IMAGEFLOW_S3_REGION" envDefault:"us-east-1"`
	S3Bucket        string `env:"IMAGEFLOW_S3_BUCKET"`
	S3AccessKeyID   string `env:"IMAGEFLOW_S3_ACCESS_KEY_ID"`
	S3SecretKey     string `env:"IMAGEFLOW_S3_SECRET_ACCESS_KEY"`
	S3UsePathStyle  bool   `env:"IMAGEFLOW_S3_USE_PATH_STYLE" envDefault:"true"`
}

// FromEnv parses environment variables into a Config. A .env file in the
// working directory is applied first when present.
func FromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// OpenAIProviderConfig returns the ProviderConfig for the OpenAI backend.
func (c *Config) OpenAIProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		Provider:     ProviderOpenAI,
		APIKey:       c.OpenAIAPIKey,
		BaseURL:      c.OpenAIBaseURL,
		Organization: c.OpenAIOrgID,
		Timeout:      c.OpenAITimeout,
	}
}

// GeminiProviderConfig returns the ProviderConfig for the Gemini backend.
func (c *Config) GeminiProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		Provider: ProviderGeminiAPI,
		APIKey:   c.GeminiAPIKey,
	}
}
