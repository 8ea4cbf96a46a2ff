package llm

import "context"

// Params are the generation parameters sent with every prompt.
type Params struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
	TopK        int
}

// DefaultParams mirrors the sampling settings the application ships with.
func DefaultParams() Params {
	return Params{MaxTokens: 512, Temperature: 0.5, TopP: 1, TopK: 250}
}

// Generator produces a completion for a single prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}
