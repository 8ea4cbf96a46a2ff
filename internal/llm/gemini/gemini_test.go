package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/llm"
)

type fakeModel struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f fakeModel) GenerateContent(context.Context, ...genai.Part) (*genai.GenerateContentResponse, error) {
	return f.resp, f.err
}

func TestGenerateJoinsTextParts(t *testing.T) {
	var seen llm.Params
	c := &Client{name: "gemini-test", newModel: func(p llm.Params) contentGenerator {
		seen = p
		return fakeModel{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello, "), genai.Text("world")}}},
		}}}
	}}

	out, err := c.Generate(context.Background(), "hi", llm.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", out)
	assert.Equal(t, llm.DefaultParams(), seen)
}

func TestGenerateErrors(t *testing.T) {
	c := &Client{newModel: func(llm.Params) contentGenerator {
		return fakeModel{err: errors.New("blocked")}
	}}
	_, err := c.Generate(context.Background(), "hi", llm.DefaultParams())
	assert.ErrorContains(t, err, "blocked")

	c = &Client{newModel: func(llm.Params) contentGenerator {
		return fakeModel{resp: &genai.GenerateContentResponse{}}
	}}
	_, err = c.Generate(context.Background(), "hi", llm.DefaultParams())
	assert.ErrorContains(t, err, "no candidates")
}
