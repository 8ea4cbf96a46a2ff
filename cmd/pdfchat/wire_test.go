package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/config"
	"pdfchat/internal/llm"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg, err := config.Load(t.TempDir() + "/none.yaml")
	require.NoError(t, err)
	return cfg
}

func TestNewEmbedder(t *testing.T) {
	cfg := testConfig(t)
	cfg.Embedder.Type = "tfidf"
	emb, closer, err := newEmbedder(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "tfidf", emb.Name())
	assert.NoError(t, closer.Close())

	cfg.Embedder.Type = "ollama"
	emb, _, err = newEmbedder(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "ollama:nomic-embed-text", emb.Name())

	cfg.Embedder.Type = "word2vec"
	_, _, err = newEmbedder(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown embedder")
}

func TestNewGenerator(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.Type = "ollama"
	gen, _, err := newGenerator(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "ollama:llama3.2", gen.Name())

	cfg.LLM.Type = "gemini"
	cfg.Providers.Gemini.APIKeyEnv = "PDFCHAT_TEST_UNSET_GEMINI_KEY"
	_, _, err = newGenerator(context.Background(), cfg)
	assert.ErrorContains(t, err, "missing API key")

	cfg.LLM.Type = "palm"
	_, _, err = newGenerator(context.Background(), cfg)
	assert.Error(t, err)
}

func TestLLMParamsDefaults(t *testing.T) {
	assert.Equal(t, llm.DefaultParams(), llmParams(testConfig(t).LLM))
}

func TestLLMParamsZeroTemperature(t *testing.T) {
	cfg := testConfig(t).LLM
	zero := 0.0
	cfg.Temperature = &zero
	p := llmParams(cfg)
	assert.Equal(t, 0.0, p.Temperature)
	assert.Equal(t, 1.0, p.TopP)
}
