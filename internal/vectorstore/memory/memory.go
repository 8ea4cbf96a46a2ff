package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"pdfchat/internal/domain"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float32
	norms     []float64
	docs      []domain.Document
}

func NewStorage() *Storage { return &Storage{} }

// Init resets the store. A zero dimension is allowed for an empty corpus.
func (s *Storage) Init(dimension int) error {
	if dimension < 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.norms = nil
	s.docs = nil
	return nil
}

// Upsert appends documents in order. Nothing is deduplicated.
func (s *Storage) Upsert(docs []domain.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return errors.New("documents and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range vectors {
		if len(v) != s.dimension {
			return fmt.Errorf("vector %d: dimension mismatch: got %d, want %d", i, len(v), s.dimension)
		}
	}
	for _, v := range vectors {
		s.norms = append(s.norms, norm(v))
	}
	s.docs = append(s.docs, docs...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns at most topK documents by descending cosine similarity.
// Equal scores keep insertion order.
func (s *Storage) Search(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 || len(s.vectors) == 0 {
		return []domain.SearchResult{}, nil
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: got %d, want %d", len(vector), s.dimension)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	qn := norm(vector)
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = cosine(s.vectors[i], s.norms[i], vector, qn)
	}
	idxs := argsortDesc(scores)
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for i := 0; i < topK; i++ {
		j := idxs[i]
		results = append(results, domain.SearchResult{Document: s.docs[j], Score: scores[j]})
	}
	return results, nil
}

// All returns copies of the stored documents and vectors in insertion order.
func (s *Storage) All() ([]domain.Document, [][]float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]domain.Document, len(s.docs))
	copy(docs, s.docs)
	vectors := make([][]float32, len(s.vectors))
	copy(vectors, s.vectors)
	return docs, vectors
}

func (s *Storage) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimension
}

func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func norm(v []float32) float64 {
	sum := 0.0
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine is zero when either side is the zero vector.
func cosine(a []float32, an float64, b []float32, bn float64) float64 {
	if an == 0 || bn == 0 {
		return 0
	}
	sum := 0.0
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum / (an * bn)
}

func argsortDesc(vals []float64) []int {
	idxs := make([]int, len(vals))
	for i := range vals {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(i, j int) bool { return vals[idxs[i]] > vals[idxs[j]] })
	return idxs
}
