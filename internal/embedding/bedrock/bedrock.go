package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Invoker is the subset of the Bedrock runtime client used here.
type Invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client computes Titan text embeddings through Amazon Bedrock.
type Client struct {
	runtime   Invoker
	model     string
	dimension int
}

// Config configures the Bedrock embeddings client. Credentials come from
// the default AWS chain (environment, shared config, instance role).
type Config struct {
	Region  string
	Model   string
	Timeout time.Duration // zero means no timeout
}

// NewClient loads the default AWS configuration and creates a runtime client.
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

// New wraps an existing runtime client.
func New(runtime Invoker, model string) *Client {
	if model == "" {
		model = "amazon.titan-embed-text-v1"
	}
	return &Client{runtime: runtime, model: model}
}

func (c *Client) Name() string { return "bedrock:" + c.model }

func (c *Client) Prepare(context.Context, []string) error { return nil }

func (c *Client) Dimension() int { return c.dimension }

type titanRequest struct {
	InputText string `json:"inputText"`
}

type titanResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// Embed invokes the embedding model for a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(titanRequest{InputText: text})
	if err != nil {
		return nil, err
	}
	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.model),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock embeddings failed: %w", err)
	}
	var resp titanResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("decoding bedrock response: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, errors.New("no embedding returned")
	}
	if c.dimension == 0 {
		c.dimension = len(resp.Embedding)
	}
	return resp.Embedding, nil
}
