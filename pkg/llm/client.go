package llm

import (
	"context"
	"fmt"
	"time"
)

// Provider names accepted by NewClient.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Client sends a chat request and waits for the complete response.
type Client interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
	Provider() string
}

// ClientConfig selects and configures a provider.
type ClientConfig struct {
	Provider string
	APIKey   string

	// BaseURL overrides the provider default (e.g. a proxy, or a test server).
	BaseURL string

	// Timeout bounds a single HTTP round-trip. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout is generous: generating a whole source file can take minutes.
const DefaultTimeout = 5 * time.Minute

// NewClient builds the client for cfg.Provider.
func NewClient(ctx context.Context, cfg ClientConfig) (Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	switch cfg.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(cfg)
	case ProviderOllama:
		return NewOllamaClient(cfg), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
