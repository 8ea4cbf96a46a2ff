package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	c, err := NewClient(Config{BaseURL: server.URL + "/v1", APIKeyEnv: "TEST_OPENAI_KEY", Model: "test-model"})
	require.NoError(t, err)
	return c
}

func TestGenerate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		var body struct {
			Model     string  `json:"model"`
			MaxTokens int     `json:"max_tokens"`
			TopP      float64 `json:"top_p"`
			Messages  []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		assert.Equal(t, 512, body.MaxTokens)
		assert.Equal(t, 1.0, body.TopP)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		assert.Equal(t, "the prompt", body.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"the answer"},"finish_reason":"stop"}]}`))
	})

	out, err := c.Generate(context.Background(), "the prompt", llm.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, "the answer", out)
}

func TestGenerateNoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	})

	_, err := c.Generate(context.Background(), "p", llm.DefaultParams())
	assert.ErrorContains(t, err, "no choices")
}

func TestGenerateServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"context length exceeded","type":"invalid_request_error"}}`))
	})

	_, err := c.Generate(context.Background(), "p", llm.DefaultParams())
	assert.ErrorContains(t, err, "context length exceeded")
}
