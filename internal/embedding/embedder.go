package embedding

import (
	"context"
	"fmt"
)

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Stateful is implemented by embedders whose model is derived from the
// indexed corpus. The index persists the state next to the vectors so a
// reloaded index can embed queries in the same space.
type Stateful interface {
	State() ([]byte, error)
	Restore(state []byte) error
}

// EmbedAll embeds texts one at a time and returns one vector per text.
// The first failure aborts the whole call.
func EmbedAll(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("%s: embedding text %d: %w", e.Name(), i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
