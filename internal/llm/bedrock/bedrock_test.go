package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/llm"
)

type fakeRuntime struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeRuntime) InvokeModel(_ context.Context, in *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestGenerate(t *testing.T) {
	rt := &fakeRuntime{body: `{"completion":" Page two talks about bananas. ","stop_reason":"stop_sequence"}`}
	c := New(rt, "")

	out, err := c.Generate(context.Background(), "What is on page two?", llm.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "Page two talks about bananas.", out)

	assert.Equal(t, "anthropic.claude-v2:1", aws.ToString(rt.input.ModelId))
	var req completionRequest
	require.NoError(t, json.Unmarshal(rt.input.Body, &req))
	assert.True(t, strings.HasPrefix(req.Prompt, "\n\nHuman: What is on page two?"))
	assert.True(t, strings.HasSuffix(req.Prompt, "\n\nAssistant:"))
	assert.Equal(t, 512, req.MaxTokensToSample)
	assert.Equal(t, 0.5, req.Temperature)
	assert.Equal(t, 1.0, req.TopP)
	assert.Equal(t, 250, req.TopK)
}

func TestGenerateErrors(t *testing.T) {
	c := New(&fakeRuntime{err: errors.New("AccessDeniedException")}, "m")
	_, err := c.Generate(context.Background(), "q", llm.DefaultParams())
	assert.ErrorContains(t, err, "AccessDeniedException")

	c = New(&fakeRuntime{body: `not json`}, "m")
	_, err = c.Generate(context.Background(), "q", llm.DefaultParams())
	assert.ErrorContains(t, err, "decoding")
}
