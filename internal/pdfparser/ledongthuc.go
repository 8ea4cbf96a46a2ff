package pdfparser

import (
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PlainText extracts page text with github.com/ledongthuc/pdf. It needs no
// license and is the default parser.
type PlainText struct{}

func NewPlainText() *PlainText { return &PlainText{} }

func (p *PlainText) Name() string { return "ledongthuc" }

// ParsePages returns one string per page in page order. Pages without a
// content stream yield an empty string so page numbers stay aligned.
func (p *PlainText) ParsePages(ctx context.Context, path string) (pages []string, err error) {
	f, r, err := pdf.Open(path)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	// the reader panics on malformed content streams
	defer func() {
		if rec := recover(); rec != nil {
			pages, err = nil, fmt.Errorf("malformed pdf %s: %v", path, rec)
		}
	}()

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
