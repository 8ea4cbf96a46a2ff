package domain

import "context"

// Document is one text-bearing unit extracted from a PDF: a page, or a
// chunk of a page when splitting is enabled.
type Document struct {
	ID     string
	Text   string
	Source string // file name inside the data folder
	Page   int    // 1-based page number
	Chunk  int    // position inside the page; 0 when pages are not split
}

// SearchResult represents a matching document with a relevance score.
type SearchResult struct {
	Document Document
	Score    float64
}

// PageParser extracts the plain text of every page of a PDF file.
type PageParser interface {
	Name() string
	ParsePages(ctx context.Context, path string) ([]string, error)
}

// Chunker splits documents into smaller documents suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Document, error)
}

// Retriever returns the documents nearest to a query vector.
type Retriever interface {
	Retrieve(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
}
