// Package index builds, persists and queries the document vector index.
package index

import (
	"context"
	"errors"
	"fmt"

	"pdfchat/internal/domain"
	"pdfchat/internal/embedding"
	"pdfchat/internal/vectorstore"
	"pdfchat/internal/vectorstore/memory"
)

var (
	// ErrNotFound means no index exists at the given path.
	ErrNotFound = errors.New("index not found")
	// ErrIncompatible means an index exists but cannot be used with the
	// current embedder or is damaged.
	ErrIncompatible = errors.New("index incompatible")
)

// Index is an immutable set of embedded documents plus the embedder that
// produced them.
type Index struct {
	store    vectorstore.Storage
	embedder embedding.Embedder
}

// Build prepares the embedder over every document text and stores each
// document once, in input order.
func Build(ctx context.Context, docs []domain.Document, embedder embedding.Embedder) (*Index, error) {
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Text
	}
	if err := embedder.Prepare(ctx, texts); err != nil {
		return nil, fmt.Errorf("preparing embedder: %w", err)
	}
	vectors, err := embedding.EmbedAll(ctx, embedder, texts)
	if err != nil {
		return nil, err
	}
	dim := embedder.Dimension()
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	return newIndex(embedder, dim, docs, vectors)
}

func newIndex(embedder embedding.Embedder, dim int, docs []domain.Document, vectors [][]float32) (*Index, error) {
	return fill(memory.NewStorage(), embedder, dim, docs, vectors)
}

// fill loads docs into an empty store.
func fill(store vectorstore.Storage, embedder embedding.Embedder, dim int, docs []domain.Document, vectors [][]float32) (*Index, error) {
	if err := store.Init(dim); err != nil {
		return nil, err
	}
	if err := store.Upsert(docs, vectors); err != nil {
		return nil, err
	}
	return &Index{store: store, embedder: embedder}, nil
}

// Retrieve returns at most k documents ordered by descending cosine
// similarity to vector.
func (ix *Index) Retrieve(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error) {
	return ix.store.Search(ctx, vector, k)
}

func (ix *Index) Len() int { return ix.store.Len() }

func (ix *Index) Dimension() int { return ix.store.Dimension() }

func (ix *Index) EmbedderName() string { return ix.embedder.Name() }

// Embedder returns the embedder queries must be embedded with.
func (ix *Index) Embedder() embedding.Embedder { return ix.embedder }

var _ domain.Retriever = (*Index)(nil)
