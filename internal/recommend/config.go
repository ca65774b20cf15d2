// Package recommend produces mood-matched artist recommendations from a
// Groq-hosted chat model, tolerating unreliable free-text output.
package recommend

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Defaults for the Groq recommendation backend.
const (
	DefaultModel       = "llama-3.1-8b-instant"
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 256
	DefaultRetries     = 3
	DefaultCount       = 10

	defaultBackoffInitial = 600 * time.Millisecond
	defaultBackoffMax     = 6 * time.Second
)

// ErrMissingAPIKey is returned when GROQ_API_KEY is not set. Missing
// credentials are a hard failure for the recommender path only.
var ErrMissingAPIKey = errors.New("missing GROQ_API_KEY environment variable")

// Config holds the recommendation backend configuration.
type Config struct {
	APIKey         string
	Model          string
	Temperature    float64
	MaxTokens      int
	Retries        int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// LoadConfig reads configuration from GROQ_* environment variables.
// Malformed numeric values fall back to their defaults rather than failing.
func LoadConfig() (*Config, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	cfg := &Config{
		APIKey:         apiKey,
		Model:          os.Getenv("GROQ_MODEL"),
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
		Retries:        DefaultRetries,
		BackoffInitial: defaultBackoffInitial,
		BackoffMax:     defaultBackoffMax,
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	if raw := os.Getenv("GROQ_TEMPERATURE"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			cfg.Temperature = parsed
		}
	}
	if raw := os.Getenv("GROQ_MAX_TOKENS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			cfg.MaxTokens = parsed
		}
	}
	if raw := os.Getenv("GROQ_RETRIES"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			cfg.Retries = parsed
		}
	}

	return cfg, nil
}
