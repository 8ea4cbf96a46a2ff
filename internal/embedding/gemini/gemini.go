package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type contentEmbedder interface {
	EmbedContent(ctx context.Context, parts ...genai.Part) (*genai.EmbedContentResponse, error)
}

// Client embeds text with a Gemini embedding model.
type Client struct {
	client    *genai.Client
	model     contentEmbedder
	name      string
	dimension int
}

// Config configures the Gemini embeddings client.
type Config struct {
	APIKeyEnv string
	Model     string
}

// NewClient creates a Gemini embeddings client. Close releases the underlying connection.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-004"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &Client{client: client, model: client.EmbeddingModel(cfg.Model), name: cfg.Model}, nil
}

func (c *Client) Name() string { return "gemini:" + c.name }

func (c *Client) Prepare(context.Context, []string) error { return nil }

func (c *Client) Dimension() int { return c.dimension }

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := c.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embeddings failed: %w", err)
	}
	if res == nil || res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, errors.New("no embedding returned")
	}
	v := res.Embedding.Values
	if c.dimension == 0 {
		c.dimension = len(v)
	}
	return v, nil
}

// Close releases the genai client.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
