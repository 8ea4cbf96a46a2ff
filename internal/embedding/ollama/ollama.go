package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
)

// Client embeds text through a local or remote Ollama server.
type Client struct {
	client    *api.Client
	model     string
	dimension int
}

// Config configures the Ollama embeddings client.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration // zero means no timeout
}

// NewClient creates an Ollama embeddings client. BaseURL defaults to the local daemon.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "nomic-embed-text"
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	return &Client{
		client: api.NewClient(u, &http.Client{Timeout: cfg.Timeout}),
		model:  cfg.Model,
	}, nil
}

func (c *Client) Name() string { return "ollama:" + c.model }

func (c *Client) Prepare(context.Context, []string) error { return nil }

func (c *Client) Dimension() int { return c.dimension }

// Embed returns the embedding of a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.client.Embed(ctx, &api.EmbedRequest{
		Model: c.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get embeddings from ollama: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0]) == 0 {
		return nil, errors.New("no embedding returned")
	}
	v := resp.Embeddings[0]
	if c.dimension == 0 {
		c.dimension = len(v)
	}
	return v, nil
}
