package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// contentGenerator is the slice of *genai.Models the Gemini client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient sends chats through the Google GenAI SDK.
type GeminiClient struct {
	models contentGenerator
}

// NewGeminiClient creates a Gemini client. An API key is required.
func NewGeminiClient(ctx context.Context, cfg ClientConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{models: client.Models}, nil
}

// Provider implements Client.
func (c *GeminiClient) Provider() string {
	return ProviderGemini
}

// Chat maps the request onto GenerateContent.
func (c *GeminiClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	contents, config := geminiRequest(req)

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	out := &ChatResponse{
		Model:         req.Model,
		CreatedAt:     time.Now().UTC(),
		Message:       Message{Role: RoleAssistant, Content: resp.Text()},
		Done:          true,
		TotalDuration: time.Since(start).Nanoseconds(),
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if resp.UsageMetadata != nil {
		out.PromptEvalCount = int(resp.UsageMetadata.PromptTokenCount)
		out.EvalCount = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return out, nil
}

// geminiRequest splits system messages into the SystemInstruction and maps
// the remaining turns onto Gemini's user/model roles.
func geminiRequest(req *ChatRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}
	var contents []*genai.Content

	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			config.SystemInstruction = genai.NewContentFromText(m.Content, genai.RoleUser)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	if opts := req.Options; opts != nil {
		if opts.Temperature != nil {
			config.Temperature = genai.Ptr(float32(*opts.Temperature))
		}
		if opts.TopP != nil {
			config.TopP = genai.Ptr(float32(*opts.TopP))
		}
		if opts.TopK != nil {
			config.TopK = genai.Ptr(float32(*opts.TopK))
		}
		if opts.Seed != nil {
			config.Seed = genai.Ptr(int32(*opts.Seed))
		}
		if opts.NumPredict != nil {
			config.MaxOutputTokens = int32(*opts.NumPredict)
		}
		config.StopSequences = opts.Stop
	}

	return contents, config
}
