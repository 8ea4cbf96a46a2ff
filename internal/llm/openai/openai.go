package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"pdfchat/internal/llm"
)

// Client generates answers with the OpenAI chat completions API or any
// compatible endpoint.
type Client struct {
	client *goopenai.Client
	model  string
}

// Config configures the chat completions client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration // zero means no timeout
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = goopenai.GPT4oMini
	}
	oc := goopenai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Client{client: goopenai.NewClientWithConfig(oc), model: cfg.Model}, nil
}

func (c *Client) Name() string { return "openai:" + c.model }

// Generate sends the prompt as a single user message. The chat API has no
// top-k parameter, so params.TopK is ignored.
func (c *Client) Generate(ctx context.Context, prompt string, params llm.Params) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   params.MaxTokens,
		Temperature: float32(params.Temperature),
		TopP:        float32(params.TopP),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
