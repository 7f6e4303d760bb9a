// Package llm provides provider-neutral chat types and the clients that send
// them to OpenAI, Ollama and Gemini.
package llm

import (
	"errors"
	"fmt"
)

// ErrorResponse represents an error body returned to HTTP callers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrMissingAPIKey is returned when a hosted provider is configured without a key.
var ErrMissingAPIKey = errors.New("llm: API key not configured")

// APIError is returned when a provider answers with a non-success status.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Provider, e.StatusCode, e.Body)
}
