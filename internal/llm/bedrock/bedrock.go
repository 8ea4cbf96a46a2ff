package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"pdfchat/internal/llm"
)

// Invoker is the subset of the Bedrock runtime client used here.
type Invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client generates answers with an Anthropic text-completion model hosted
// on Amazon Bedrock.
type Client struct {
	runtime Invoker
	model   string
}

type Config struct {
	Region  string
	Model   string
	Timeout time.Duration
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return New(bedrockruntime.NewFromConfig(awsCfg), cfg.Model), nil
}

func New(runtime Invoker, model string) *Client {
	if model == "" {
		model = "anthropic.claude-v2:1"
	}
	return &Client{runtime: runtime, model: model}
}

func (c *Client) Name() string { return "bedrock:" + c.model }

type completionRequest struct {
	Prompt            string   `json:"prompt"`
	MaxTokensToSample int      `json:"max_tokens_to_sample"`
	Temperature       float64  `json:"temperature"`
	TopP              float64  `json:"top_p"`
	TopK              int      `json:"top_k"`
	StopSequences     []string `json:"stop_sequences,omitempty"`
}

type completionResponse struct {
	Completion string `json:"completion"`
	StopReason string `json:"stop_reason"`
}

// humanTurn wraps a prompt in the Human/Assistant framing the text
// completion API requires.
func humanTurn(prompt string) string {
	return "\n\nHuman: " + prompt + "\n\nAssistant:"
}

func (c *Client) Generate(ctx context.Context, prompt string, params llm.Params) (string, error) {
	body, err := json.Marshal(completionRequest{
		Prompt:            humanTurn(prompt),
		MaxTokensToSample: params.MaxTokens,
		Temperature:       params.Temperature,
		TopP:              params.TopP,
		TopK:              params.TopK,
		StopSequences:     []string{"\n\nHuman:"},
	})
	if err != nil {
		return "", err
	}
	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("bedrock invoke failed: %w", err)
	}
	var resp completionResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("decoding bedrock response: %w", err)
	}
	return strings.TrimSpace(resp.Completion), nil
}
