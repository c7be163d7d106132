package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseline(t *testing.T) {
	t.Helper()
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("CIVICASSIST_PORT", "")
	t.Setenv("CIVICASSIST_PROVIDER", "")
	t.Setenv("CIVICASSIST_MODEL", "")
	t.Setenv("CIVICASSIST_MAX_TOKENS", "")
	t.Setenv("CIVICASSIST_MAX_ITERATIONS", "")
	t.Setenv("CIVICASSIST_FACTS_DIR", "")
	t.Setenv("CIVICASSIST_FACTS_REGISTRY", "")
	t.Setenv("CIVICASSIST_GRAPH_BACKEND", "")
	t.Setenv("CIVICASSIST_GRAPH_DATABASE_URL", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseline(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Provider != "claude" {
		t.Errorf("Provider = %q, want claude", cfg.Provider)
	}
	if cfg.MaxTokens != 4096 {
		t.Errorf("MaxTokens = %d, want 4096", cfg.MaxTokens)
	}
	if cfg.MaxIterations != 5 {
		t.Errorf("MaxIterations = %d, want 5", cfg.MaxIterations)
	}
	if cfg.FactsDir != "docs/facts" || cfg.FactsRegistry != "boston_rpp" {
		t.Errorf("facts config = %q / %q", cfg.FactsDir, cfg.FactsRegistry)
	}
	if cfg.GraphBackend != GraphBackendMemory {
		t.Errorf("GraphBackend = %q, want memory", cfg.GraphBackend)
	}
	if cfg.WriteTimeout != 120*time.Second {
		t.Errorf("WriteTimeout = %v", cfg.WriteTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	setBaseline(t)
	t.Setenv("CIVICASSIST_PORT", "9090")
	t.Setenv("CIVICASSIST_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("CIVICASSIST_MAX_ITERATIONS", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != 9090 || cfg.Provider != "openai" || cfg.MaxIterations != 10 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.EngineAPIKey() != "openai-key" {
		t.Errorf("EngineAPIKey = %q", cfg.EngineAPIKey())
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{"unknown provider", map[string]string{"CIVICASSIST_PROVIDER": "grok"}, "provider"},
		{"missing anthropic key", map[string]string{"ANTHROPIC_API_KEY": ""}, "anthropic_api_key"},
		{"openai without key", map[string]string{"CIVICASSIST_PROVIDER": "openai"}, "openai_api_key"},
		{"gemini without key", map[string]string{"CIVICASSIST_PROVIDER": "gemini"}, "gemini_api_key"},
		{"iterations too high", map[string]string{"CIVICASSIST_MAX_ITERATIONS": "21"}, "max_iterations"},
		{"iterations zero", map[string]string{"CIVICASSIST_MAX_ITERATIONS": "0"}, "max_iterations"},
		{"bad port", map[string]string{"CIVICASSIST_PORT": "70000"}, "port"},
		{"unknown backend", map[string]string{"CIVICASSIST_GRAPH_BACKEND": "neo4j"}, "graph_backend"},
		{"postgres without url", map[string]string{"CIVICASSIST_GRAPH_BACKEND": "postgres"}, "graph_database_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setBaseline(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("Load succeeded, want validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name field %q", err, tt.field)
			}
		})
	}
}

func TestValidatorAccumulates(t *testing.T) {
	v := NewValidator()
	v.RequireNonEmpty("a", "")
	v.RequirePositive("b", -1)
	v.ValidateOneOf("c", "x", "y", "z")

	if !v.HasErrors() {
		t.Fatal("expected errors")
	}
	if len(v.Errors()) != 3 {
		t.Errorf("got %d errors, want 3", len(v.Errors()))
	}
	err := v.Error()
	for _, field := range []string{"a", "b", "c"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("combined error missing field %q", field)
		}
	}
}

func TestValidatorClean(t *testing.T) {
	v := NewValidator()
	v.RequireNonEmpty("a", "ok").
		RequirePositive("b", 1).
		ValidatePort("port", 8080).
		ValidateRange("n", 5, 1, 20).
		ValidateOneOf("c", "y", "y", "z")

	if v.HasErrors() {
		t.Errorf("unexpected errors: %v", v.Errors())
	}
	if v.Error() != nil {
		t.Errorf("Error() = %v, want nil", v.Error())
	}
}
