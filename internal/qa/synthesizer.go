// Package qa answers questions by stuffing retrieved passages into one prompt.
package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"pdfchat/internal/domain"
	"pdfchat/internal/embedding"
	"pdfchat/internal/llm"
)

var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrEmptyAnswer   = errors.New("model returned an empty answer")
)

const DefaultTopK = 4

const promptTemplate = `Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.

%s

Question: %s
Helpful Answer:`

// Synthesizer runs one retrieve-then-generate round per question.
type Synthesizer struct {
	embedder  embedding.Embedder
	retriever domain.Retriever
	llm       llm.Generator
	topK      int
	params    llm.Params
	log       logrus.FieldLogger
}

func NewSynthesizer(embedder embedding.Embedder, retriever domain.Retriever, generator llm.Generator, topK int, params llm.Params, log logrus.FieldLogger) *Synthesizer {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Synthesizer{
		embedder:  embedder,
		retriever: retriever,
		llm:       generator,
		topK:      topK,
		params:    params,
		log:       log,
	}
}

// Answer embeds the question, retrieves the closest passages and asks the
// model once. No partial answer is returned on failure.
func (s *Synthesizer) Answer(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embedding question: %w", err)
	}
	results, err := s.retriever.Retrieve(ctx, vec, s.topK)
	if err != nil {
		return "", fmt.Errorf("retrieving documents: %w", err)
	}
	prompt := BuildPrompt(question, results)
	s.log.WithFields(logrus.Fields{
		"retrieved":    len(results),
		"prompt_chars": len(prompt),
		"model":        s.llm.Name(),
	}).Debug("generating answer")

	answer, err := s.llm.Generate(ctx, prompt, s.params)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("generating answer: %w", ErrEmptyAnswer)
	}
	return answer, nil
}

// BuildPrompt joins every retrieved passage, separated by blank lines,
// into the question-answering prompt. Passages are never truncated.
func BuildPrompt(question string, results []domain.SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Document.Text
	}
	return fmt.Sprintf(promptTemplate, strings.Join(parts, "\n\n"), question)
}
