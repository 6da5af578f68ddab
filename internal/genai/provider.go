// Package genai talks to hosted text-generation services and turns their
// free-form responses into portfolio site content. Each provider handles its
// own HTTP communication and response parsing.
package genai

import (
	"context"
	"fmt"
	"strings"
)

// Provider is the contract every text-generation backend implements.
type Provider interface {
	// Generate sends a prompt to the model and returns the raw generated text.
	// systemPrompt sets the model's behaviour; userPrompt carries the request.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name returns the provider identifier (e.g. "gemini", "openai").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewProvider builds the named provider. The API key must be present; the
// caller is expected to have validated configuration before reaching here.
func NewProvider(name string, cfg ProviderConfig) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("genai: provider %q requires an api key", name)
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gemini":
		return newGemini(cfg), nil
	case "openai":
		return newOpenAI(cfg), nil
	default:
		return nil, fmt.Errorf("genai: unknown provider %q", name)
	}
}
