package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"pdfchat/internal/domain"
)

// SentenceChunker splits a page into overlapping windows of sentences.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	splitter          *regexp.Regexp
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	if overlapSentences >= sentencesPerChunk {
		overlapSentences = sentencesPerChunk - 1
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		splitter:          regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

// Chunk returns the windows of document numbered from 1. A page without
// text comes back unchanged so every page keeps at least one document.
func (c *SentenceChunker) Chunk(document domain.Document) ([]domain.Document, error) {
	trimmed := strings.TrimSpace(document.Text)
	if trimmed == "" {
		return []domain.Document{document}, nil
	}
	var sentences []string
	last := 0
	for _, loc := range c.splitter.FindAllStringIndex(trimmed, -1) {
		sentences = append(sentences, strings.TrimSpace(trimmed[loc[0]:loc[1]]))
		last = loc[1]
	}
	// text after the last terminator is a sentence too
	if tail := strings.TrimSpace(trimmed[last:]); tail != "" {
		sentences = append(sentences, tail)
	}

	var chunks []domain.Document
	i := 0
	idx := 1
	for i < len(sentences) {
		end := i + c.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		text := strings.Join(sentences[i:end], " ")
		chunks = append(chunks, domain.NewDocument(document.Source, document.Page, idx, text))
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
		idx++
	}
	return chunks, nil
}

// Passthrough keeps one document per page.
type Passthrough struct{}

func (Passthrough) Chunk(document domain.Document) ([]domain.Document, error) {
	return []domain.Document{document}, nil
}

// New returns the chunker for a configured type.
func New(kind string, sentencesPerChunk, overlapSentences int) (domain.Chunker, error) {
	switch kind {
	case "", "none":
		return Passthrough{}, nil
	case "sentence":
		return NewSentenceChunker(sentencesPerChunk, overlapSentences), nil
	default:
		return nil, fmt.Errorf("unknown chunker type: %s", kind)
	}
}

// ChunkAll applies c to every document, preserving order.
func ChunkAll(c domain.Chunker, docs []domain.Document) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		chunks, err := c.Chunk(d)
		if err != nil {
			return nil, fmt.Errorf("chunking %s page %d: %w", d.Source, d.Page, err)
		}
		out = append(out, chunks...)
	}
	return out, nil
}
