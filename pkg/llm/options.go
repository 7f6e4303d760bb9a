package llm

// Options contains model inference parameters. Not every provider honors
// every field; unsupported ones are dropped when the request is mapped.
type Options struct {
	// Sampling parameters
	Temperature *float64 `json:"temperature,omitempty"` // Creativity (0.0-2.0)
	TopP        *float64 `json:"top_p,omitempty"`       // Nucleus sampling threshold
	TopK        *int     `json:"top_k,omitempty"`       // Top-k sampling
	Seed        *int     `json:"seed,omitempty"`        // Random seed for reproducibility

	// Length parameters
	NumPredict *int `json:"num_predict,omitempty"` // Max tokens to generate

	// Stop sequences
	Stop []string `json:"stop,omitempty"` // Stop generation at these sequences
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}
