package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"
	// EnvDevelopment represents the development environment.
	EnvDevelopment = "development"
)

// Backend selects which processor handles uploads.
type Backend string

const (
	// BackendSimulated runs the offline timer-driven pipeline.
	BackendSimulated Backend = "simulated"
	// BackendService posts uploads to the Summarization Service.
	BackendService Backend = "service"
	// BackendDirect calls the OpenAI and Anthropic APIs directly.
	BackendDirect Backend = "direct"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Env  string `envconfig:"ENV" default:"development"`
	Port string `envconfig:"PORT" default:"5050"`

	// Security settings
	HSTSMaxAge int    `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode    string `envconfig:"CSP_MODE" default:"relaxed"`
	StaticDir  string `envconfig:"STATIC_DIR"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Processing settings
	Backend        Backend       `envconfig:"BACKEND" default:"simulated"`
	ServiceURL     string        `envconfig:"SERVICE_URL" default:"http://localhost:5050"`
	StepInterval   time.Duration `envconfig:"STEP_INTERVAL" default:"300ms"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10m"`
	HistoryLimit   int           `envconfig:"HISTORY_LIMIT" default:"100"`

	// Model settings
	OpenAIAPIKey       string `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey    string `envconfig:"ANTHROPIC_API_KEY"`
	TranscriptionModel string `envconfig:"TRANSCRIPTION_MODEL" default:"whisper-1"`
	SummaryModel       string `envconfig:"SUMMARY_MODEL" default:"claude-sonnet-4-5-20250929"`
	SummaryLength      string `envconfig:"SUMMARY_LENGTH" default:"medium"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist (expected in production)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return &config, nil
}

// Validate checks enum settings and backend prerequisites. API keys for the
// direct backend are checked by the caller, which may fall back to the keychain.
func (c *Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendSimulated, BackendDirect:
	case BackendService:
		if c.ServiceURL == "" {
			errs = append(errs, errors.New("SERVICE_URL is required for the service backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid backend %q: must be simulated, service or direct", c.Backend))
	}

	switch c.SummaryLength {
	case "short", "medium", "long":
	default:
		errs = append(errs, fmt.Errorf("invalid summary length %q: must be short, medium or long", c.SummaryLength))
	}

	if c.StepInterval < 0 {
		errs = append(errs, errors.New("STEP_INTERVAL cannot be negative"))
	}

	if c.HistoryLimit < 1 {
		errs = append(errs, errors.New("HISTORY_LIMIT must be positive"))
	}

	return errors.Join(errs...)
}

// BuildCSP constructs Content Security Policy based on mode.
func BuildCSP(mode string) string {
	if mode == "strict" {
		// Production CSP
		return "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'; " +
			"img-src 'self' data:; " +
			"media-src 'self' blob:; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	// Development/relaxed CSP
	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data:; " +
		"media-src 'self' blob:"
}
