// Package config loads and validates application configuration.
//
// Static settings come from environment variables read once at startup.
// Generation tuning profiles come from an optional YAML file, and the
// Watcher layers runtime-changeable limits on top of both.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address         string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// GenerationConfig holds generation backend settings.
type GenerationConfig struct {
	// Provider selects the backend: "http" or "mock".
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration

	// ProfilesPath points at the YAML tuning profiles file. Empty uses the
	// built-in defaults.
	ProfilesPath string

	// BreakerEnabled wraps the provider in a circuit breaker.
	BreakerEnabled bool

	// MaxConcurrent caps in-flight generation operations. Zero is unlimited.
	MaxConcurrent int
}

// CanvasConfig bounds canvas sizes and tunes the placeholder lifecycle.
type CanvasConfig struct {
	MaxNodes       int
	MaxEdges       int
	MinimumLoading time.Duration
	OperationTTL   time.Duration
}

// ObservabilityConfig holds metrics and tracing settings.
type ObservabilityConfig struct {
	EnableMetrics bool
	EnableTracing bool
	OTLPEndpoint  string
	ServiceName   string
}

// Config holds all application configuration
type Config struct {
	Environment string
	LogLevel    string

	Server        ServerConfig
	Generation    GenerationConfig
	Canvas        CanvasConfig
	Observability ObservabilityConfig

	// TuningPath points at the optional runtime tuning file picked up by the
	// Watcher. Empty disables watching.
	TuningPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		Server: ServerConfig{
			Address:         getEnv("SERVER_ADDRESS", ":8080"),
			RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
			AllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		},

		Generation: GenerationConfig{
			Provider:       getEnv("GENERATION_PROVIDER", "mock"),
			BaseURL:        getEnv("GENERATION_BASE_URL", ""),
			APIKey:         getEnv("GENERATION_API_KEY", ""),
			Model:          getEnv("GENERATION_MODEL", ""),
			Timeout:        getEnvDuration("GENERATION_TIMEOUT", 30*time.Second),
			ProfilesPath:   getEnv("GENERATION_PROFILES_PATH", ""),
			BreakerEnabled: getEnvBool("GENERATION_BREAKER_ENABLED", true),
			MaxConcurrent:  getEnvInt("GENERATION_MAX_CONCURRENT", 0),
		},

		Canvas: CanvasConfig{
			MaxNodes:       getEnvInt("CANVAS_MAX_NODES", 500),
			MaxEdges:       getEnvInt("CANVAS_MAX_EDGES", 2000),
			MinimumLoading: getEnvDuration("MINIMUM_LOADING_DURATION", 300*time.Millisecond),
			OperationTTL:   getEnvDuration("OPERATION_TTL", 10*time.Minute),
		},

		Observability: ObservabilityConfig{
			EnableMetrics: getEnvBool("ENABLE_METRICS", true),
			EnableTracing: getEnvBool("ENABLE_TRACING", false),
			OTLPEndpoint:  getEnv("OTLP_ENDPOINT", "localhost:4317"),
			ServiceName:   getEnv("SERVICE_NAME", "loreweave-backend"),
		},

		TuningPath: getEnv("TUNING_PATH", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig for backwards compatibility
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	switch c.Generation.Provider {
	case "http", "mock":
	default:
		return fmt.Errorf("GENERATION_PROVIDER must be \"http\" or \"mock\", got %q", c.Generation.Provider)
	}

	if c.Generation.Provider == "http" && c.Generation.BaseURL == "" {
		return fmt.Errorf("GENERATION_BASE_URL is required when GENERATION_PROVIDER is http")
	}

	if c.IsProduction() && c.Generation.Provider == "mock" {
		return fmt.Errorf("GENERATION_PROVIDER cannot be mock in production")
	}

	if c.Canvas.MinimumLoading < 0 {
		return fmt.Errorf("MINIMUM_LOADING_DURATION cannot be negative")
	}

	if c.Canvas.OperationTTL <= 0 {
		return fmt.Errorf("OPERATION_TTL must be positive")
	}

	if c.Generation.MaxConcurrent < 0 {
		return fmt.Errorf("GENERATION_MAX_CONCURRENT cannot be negative")
	}

	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// splitList splits a comma-separated list and trims whitespace.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
