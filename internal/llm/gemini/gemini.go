package gemini

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"pdfchat/internal/llm"
)

// Client generates answers with a Gemini model.
type Client struct {
	client *genai.Client
	name   string
	// newModel returns a configured model for one request; swapped in tests.
	newModel func(params llm.Params) contentGenerator
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Config configures the Gemini client.
type Config struct {
	APIKeyEnv string
	Model     string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	c := &Client{client: client, name: cfg.Model}
	c.newModel = func(params llm.Params) contentGenerator {
		m := client.GenerativeModel(cfg.Model)
		m.SetMaxOutputTokens(int32(params.MaxTokens))
		m.SetTemperature(float32(params.Temperature))
		m.SetTopP(float32(params.TopP))
		m.SetTopK(int32(params.TopK))
		return m
	}
	return c, nil
}

func (c *Client) Name() string { return "gemini:" + c.name }

func (c *Client) Generate(ctx context.Context, prompt string, params llm.Params) (string, error) {
	resp, err := c.newModel(params).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	return responseText(resp)
}

// Close releases the genai client.
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
