package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"pdfchat/internal/config"
	"pdfchat/internal/embedding"
	embbedrock "pdfchat/internal/embedding/bedrock"
	embgemini "pdfchat/internal/embedding/gemini"
	embollama "pdfchat/internal/embedding/ollama"
	embopenai "pdfchat/internal/embedding/openai"
	"pdfchat/internal/embedding/tfidf"
	"pdfchat/internal/llm"
	llmbedrock "pdfchat/internal/llm/bedrock"
	llmgemini "pdfchat/internal/llm/gemini"
	llmollama "pdfchat/internal/llm/ollama"
	llmopenai "pdfchat/internal/llm/openai"
)

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newEmbedder(ctx context.Context, cfg *config.AppConfig) (embedding.Embedder, io.Closer, error) {
	p := cfg.Providers
	switch cfg.Embedder.Type {
	case "tfidf":
		return tfidf.NewEmbedder(), nopCloser{}, nil
	case "openai":
		c, err := embopenai.NewClient(embopenai.Config{
			BaseURL:   p.OpenAI.BaseURL,
			APIKeyEnv: p.OpenAI.APIKeyEnv,
			Model:     p.OpenAI.EmbeddingModel,
			Timeout:   seconds(p.OpenAI.TimeoutSecs),
		})
		return c, nopCloser{}, err
	case "ollama":
		c, err := embollama.NewClient(embollama.Config{
			BaseURL: p.Ollama.BaseURL,
			Model:   p.Ollama.EmbeddingModel,
			Timeout: seconds(p.Ollama.TimeoutSecs),
		})
		return c, nopCloser{}, err
	case "gemini":
		c, err := embgemini.NewClient(ctx, embgemini.Config{
			APIKeyEnv: p.Gemini.APIKeyEnv,
			Model:     p.Gemini.EmbeddingModel,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	case "bedrock":
		c, err := embbedrock.NewClient(ctx, embbedrock.Config{
			Region:  p.Bedrock.Region,
			Model:   p.Bedrock.EmbeddingModel,
			Timeout: seconds(p.Bedrock.TimeoutSecs),
		})
		return c, nopCloser{}, err
	default:
		return nil, nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}
}

func newGenerator(ctx context.Context, cfg *config.AppConfig) (llm.Generator, io.Closer, error) {
	p := cfg.Providers
	switch cfg.LLM.Type {
	case "openai":
		c, err := llmopenai.NewClient(llmopenai.Config{
			BaseURL:   p.OpenAI.BaseURL,
			APIKeyEnv: p.OpenAI.APIKeyEnv,
			Model:     p.OpenAI.ChatModel,
			Timeout:   seconds(p.OpenAI.TimeoutSecs),
		})
		return c, nopCloser{}, err
	case "ollama":
		c, err := llmollama.NewClient(llmollama.Config{
			BaseURL: p.Ollama.BaseURL,
			Model:   p.Ollama.ChatModel,
			Timeout: seconds(p.Ollama.TimeoutSecs),
		})
		return c, nopCloser{}, err
	case "gemini":
		c, err := llmgemini.NewClient(ctx, llmgemini.Config{
			APIKeyEnv: p.Gemini.APIKeyEnv,
			Model:     p.Gemini.ChatModel,
		})
		if err != nil {
			return nil, nil, err
		}
		return c, c, nil
	case "bedrock":
		c, err := llmbedrock.NewClient(ctx, llmbedrock.Config{
			Region:  p.Bedrock.Region,
			Model:   p.Bedrock.ChatModel,
			Timeout: seconds(p.Bedrock.TimeoutSecs),
		})
		return c, nopCloser{}, err
	default:
		return nil, nil, fmt.Errorf("unknown llm: %s", cfg.LLM.Type)
	}
}

func llmParams(cfg config.LLMConfig) llm.Params {
	p := llm.DefaultParams()
	p.MaxTokens = cfg.MaxTokens
	p.TopK = cfg.TopK
	if cfg.Temperature != nil {
		p.Temperature = *cfg.Temperature
	}
	if cfg.TopP != nil {
		p.TopP = *cfg.TopP
	}
	return p
}
