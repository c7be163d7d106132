// Package config loads service configuration from the environment.
package config

import (
	"time"

	"github.com/opencivic/civicassist/pkg/env"
)

// Graph backend names.
const (
	GraphBackendMemory   = "memory"
	GraphBackendPostgres = "postgres"
)

// Config holds the full service configuration.
type Config struct {
	// HTTP server
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Reasoning engine
	Provider        string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiAPIKey    string
	Model           string
	MaxTokens       int
	MaxIterations   int

	// Facts registry
	FactsDir      string
	FactsRegistry string

	// Graph store
	GraphBackend     string
	GraphDatabaseURL string

	// Telemetry
	Environment      string
	ServiceVersion   string
	DisableTelemetry bool
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            env.GetEnvInt("CIVICASSIST_PORT", 8080),
		ReadTimeout:     env.GetEnvDuration("CIVICASSIST_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    env.GetEnvDuration("CIVICASSIST_WRITE_TIMEOUT", 120*time.Second),
		ShutdownTimeout: env.GetEnvDuration("CIVICASSIST_SHUTDOWN_TIMEOUT", 10*time.Second),

		Provider:        env.GetEnv("CIVICASSIST_PROVIDER", "claude"),
		AnthropicAPIKey: env.GetEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    env.GetEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:    env.GetEnv("GEMINI_API_KEY", ""),
		Model:           env.GetEnv("CIVICASSIST_MODEL", ""),
		MaxTokens:       env.GetEnvInt("CIVICASSIST_MAX_TOKENS", 4096),
		MaxIterations:   env.GetEnvInt("CIVICASSIST_MAX_ITERATIONS", 5),

		FactsDir:      env.GetEnv("CIVICASSIST_FACTS_DIR", "docs/facts"),
		FactsRegistry: env.GetEnv("CIVICASSIST_FACTS_REGISTRY", "boston_rpp"),

		GraphBackend:     env.GetEnv("CIVICASSIST_GRAPH_BACKEND", GraphBackendMemory),
		GraphDatabaseURL: env.GetEnv("CIVICASSIST_GRAPH_DATABASE_URL", ""),

		Environment:      env.GetEnv("CIVICASSIST_ENVIRONMENT", "development"),
		ServiceVersion:   env.GetEnv("CIVICASSIST_VERSION", "dev"),
		DisableTelemetry: env.GetEnvBool("CIVICASSIST_DISABLE_TELEMETRY", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	v := NewValidator()

	v.ValidatePort("port", c.Port)
	v.ValidateOneOf("provider", c.Provider, "claude", "openai", "gemini")
	v.RequirePositive("max_tokens", c.MaxTokens)
	v.ValidateRange("max_iterations", c.MaxIterations, 1, 20)
	v.RequireNonEmpty("facts_dir", c.FactsDir)
	v.RequireNonEmpty("facts_registry", c.FactsRegistry)
	v.ValidateOneOf("graph_backend", c.GraphBackend, GraphBackendMemory, GraphBackendPostgres)

	if c.GraphBackend == GraphBackendPostgres {
		v.RequireNonEmpty("graph_database_url", c.GraphDatabaseURL)
	}
	switch c.Provider {
	case "claude":
		v.RequireNonEmpty("anthropic_api_key", c.AnthropicAPIKey)
	case "openai":
		v.RequireNonEmpty("openai_api_key", c.OpenAIAPIKey)
	case "gemini":
		v.RequireNonEmpty("gemini_api_key", c.GeminiAPIKey)
	}

	return v.Error()
}

// EngineAPIKey returns the API key for the configured provider.
func (c *Config) EngineAPIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIAPIKey
	case "gemini":
		return c.GeminiAPIKey
	}
	return c.AnthropicAPIKey
}
