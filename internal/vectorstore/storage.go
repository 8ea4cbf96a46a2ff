package vectorstore

import (
	"context"

	"pdfchat/internal/domain"
)

// Storage holds document vectors and answers nearest-neighbour queries.
type Storage interface {
	Init(dimension int) error
	Upsert(docs []domain.Document, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error)
	// All returns every document and its vector in insertion order.
	All() ([]domain.Document, [][]float32)
	Dimension() int
	Len() int
}
