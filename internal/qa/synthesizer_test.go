package qa

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/domain"
	"pdfchat/internal/llm"
)

type stubEmbedder struct{ err error }

func (s stubEmbedder) Name() string { return "stub" }

func (s stubEmbedder) Prepare(context.Context, []string) error { return nil }

func (s stubEmbedder) Dimension() int { return 1 }

func (s stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float32{1}, nil
}

type stubRetriever struct {
	results []domain.SearchResult
	err     error
	k       int
}

func (s *stubRetriever) Retrieve(_ context.Context, _ []float32, k int) ([]domain.SearchResult, error) {
	s.k = k
	return s.results, s.err
}

type stubLLM struct {
	reply  string
	err    error
	prompt string
	params llm.Params
	calls  int
}

func (s *stubLLM) Name() string { return "stub-llm" }

func (s *stubLLM) Generate(_ context.Context, prompt string, params llm.Params) (string, error) {
	s.calls++
	s.prompt = prompt
	s.params = params
	return s.reply, s.err
}

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func result(text string) domain.SearchResult {
	return domain.SearchResult{Document: domain.Document{Text: text}}
}

func TestAnswerStuffsAllPassages(t *testing.T) {
	r := &stubRetriever{results: []domain.SearchResult{result("Page B text."), result("Page A text.")}}
	model := &stubLLM{reply: "  It is about B.\n"}
	s := NewSynthesizer(stubEmbedder{}, r, model, 0, llm.DefaultParams(), quiet())

	answer, err := s.Answer(context.Background(), "What is B?")
	require.NoError(t, err)
	assert.Equal(t, "It is about B.", answer)
	assert.Equal(t, DefaultTopK, r.k)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, llm.DefaultParams(), model.params)
	assert.Contains(t, model.prompt, "Page B text.\n\nPage A text.")
	assert.True(t, strings.HasSuffix(model.prompt, "Question: What is B?\nHelpful Answer:"))
	assert.True(t, strings.HasPrefix(model.prompt, "Use the following pieces of context"))
}

func TestAnswerEmptyQuestion(t *testing.T) {
	model := &stubLLM{reply: "x"}
	s := NewSynthesizer(stubEmbedder{}, &stubRetriever{}, model, 2, llm.DefaultParams(), quiet())
	_, err := s.Answer(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Zero(t, model.calls)
}

func TestAnswerWithNoRetrievedPassages(t *testing.T) {
	model := &stubLLM{reply: "I don't know."}
	s := NewSynthesizer(stubEmbedder{}, &stubRetriever{results: []domain.SearchResult{}}, model, 4, llm.DefaultParams(), quiet())
	answer, err := s.Answer(context.Background(), "anything?")
	require.NoError(t, err)
	assert.Equal(t, "I don't know.", answer)
}

func TestAnswerStageErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	s := NewSynthesizer(stubEmbedder{err: boom}, &stubRetriever{}, &stubLLM{reply: "x"}, 4, llm.DefaultParams(), quiet())
	_, err := s.Answer(ctx, "q")
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "embedding question")

	s = NewSynthesizer(stubEmbedder{}, &stubRetriever{err: boom}, &stubLLM{reply: "x"}, 4, llm.DefaultParams(), quiet())
	_, err = s.Answer(ctx, "q")
	assert.ErrorContains(t, err, "retrieving documents")

	s = NewSynthesizer(stubEmbedder{}, &stubRetriever{}, &stubLLM{err: errors.New("ThrottlingException")}, 4, llm.DefaultParams(), quiet())
	answer, err := s.Answer(ctx, "q")
	assert.Empty(t, answer)
	assert.ErrorContains(t, err, "generating answer: ThrottlingException")

	s = NewSynthesizer(stubEmbedder{}, &stubRetriever{}, &stubLLM{reply: " \n"}, 4, llm.DefaultParams(), quiet())
	_, err = s.Answer(ctx, "q")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt("Why?", nil)
	assert.Equal(t, "Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.\n\n\n\nQuestion: Why?\nHelpful Answer:", p)
}
