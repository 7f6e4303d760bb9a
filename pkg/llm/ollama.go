package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultOllamaBaseURL is where a local Ollama listens by default.
const DefaultOllamaBaseURL = "http://localhost:11434"

// maxChunkSize bounds a single NDJSON line from the stream.
const maxChunkSize = 1 << 20

// OllamaClient talks to an Ollama /api/chat endpoint. Responses are always
// streamed and accumulated, so long generations do not hit idle timeouts.
type OllamaClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOllamaClient creates a new Ollama client. No API key is needed.
func NewOllamaClient(cfg ClientConfig) *OllamaClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &OllamaClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Provider implements Client.
func (c *OllamaClient) Provider() string {
	return ProviderOllama
}

// Chat streams the response and returns it once the final chunk arrives.
func (c *OllamaClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	streaming := true
	body := *req
	body.Stream = &streaming

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(httpResp.Body)
		return nil, &APIError{Provider: ProviderOllama, StatusCode: httpResp.StatusCode, Body: string(data)}
	}

	return accumulateStream(httpResp.Body)
}

// accumulateStream concatenates chunk contents until a done chunk is seen.
func accumulateStream(r io.Reader) (*ChatResponse, error) {
	var fullContent strings.Builder

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxChunkSize)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var chunk StreamChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return nil, fmt.Errorf("parse chunk: %w", err)
		}

		fullContent.WriteString(chunk.Message.Content)

		if chunk.Done {
			return &ChatResponse{
				Model:           chunk.Model,
				CreatedAt:       chunk.CreatedAt,
				Message:         Message{Role: RoleAssistant, Content: fullContent.String()},
				Done:            true,
				TotalDuration:   chunk.TotalDuration,
				PromptEvalCount: chunk.PromptEvalCount,
				EvalCount:       chunk.EvalCount,
			}, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stream: %w", err)
	}

	return nil, errors.New("stream ended before the final chunk")
}
