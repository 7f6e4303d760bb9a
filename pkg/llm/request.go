package llm

// ChatRequest represents a chat completion request. The shape follows the
// Ollama /api/chat body; other providers map from it.
type ChatRequest struct {
	Model    string    `json:"model"`            // Model name (e.g., "gpt-4", "llama3")
	Messages []Message `json:"messages"`         // System message, history, then the new instruction
	Stream   *bool     `json:"stream,omitempty"` // Whether to stream responses (default: true in Ollama)

	// Generation options
	Options *Options `json:"options,omitempty"`
}
