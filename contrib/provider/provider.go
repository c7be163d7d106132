// Package provider selects and constructs the reasoning backend.
package provider

import (
	"fmt"

	"github.com/opencivic/civicassist/agent"
	"github.com/opencivic/civicassist/contrib/provider/claude"
	"github.com/opencivic/civicassist/contrib/provider/gemini"
	"github.com/opencivic/civicassist/contrib/provider/openai"
	cuserrors "github.com/opencivic/civicassist/errors"
)

// Provider names accepted by New.
const (
	NameClaude = "claude"
	NameOpenAI = "openai"
	NameGemini = "gemini"
)

// Config selects a provider and carries its settings.
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int64
}

// New constructs the engine named by cfg.Provider.
func New(cfg Config) (agent.Engine, error) {
	switch cfg.Provider {
	case NameClaude:
		return claude.New(&claude.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			BaseURL:   cfg.BaseURL,
			MaxTokens: cfg.MaxTokens,
		}), nil
	case NameOpenAI:
		return openai.New(&openai.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			BaseURL:   cfg.BaseURL,
			MaxTokens: cfg.MaxTokens,
		}), nil
	case NameGemini:
		return gemini.New(&gemini.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			BaseURL:   cfg.BaseURL,
			MaxTokens: cfg.MaxTokens,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", cuserrors.ErrInvalidInput, cfg.Provider)
	}
}
