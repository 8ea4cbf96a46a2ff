package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"pdfchat/internal/llm"
)

// Client generates answers with an Ollama model.
type Client struct {
	client *api.Client
	model  string
}

// Config configures the Ollama generate client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration // zero means no timeout
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2"
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	return &Client{client: api.NewClient(u, &http.Client{Timeout: cfg.Timeout}), model: cfg.Model}, nil
}

func (c *Client) Name() string { return "ollama:" + c.model }

// Generate runs a non-streaming completion with the sampling options mapped
// onto Ollama's option names.
func (c *Client) Generate(ctx context.Context, prompt string, params llm.Params) (string, error) {
	stream := false
	var sb strings.Builder
	err := c.client.Generate(ctx, &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]any{
			"num_predict": params.MaxTokens,
			"temperature": params.Temperature,
			"top_p":       params.TopP,
			"top_k":       params.TopK,
		},
	}, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content with ollama: %w", err)
	}
	return sb.String(), nil
}
