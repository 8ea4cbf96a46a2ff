package pdfparser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// ErrNoLicense means the unipdf parser was selected without a metered key.
var ErrNoLicense = errors.New("unipdf license key not set")

var (
	licenseOnce sync.Once
	licenseErr  error
)

// UniPDF extracts page text with unipdf's layout-aware extractor. Extraction
// requires a metered key from unidoc.io, read from the configured env var.
type UniPDF struct {
	err error
}

// NewUniPDF registers the metered license once per process. Without a key
// every ParsePages call fails with ErrNoLicense.
func NewUniPDF(keyEnv string) *UniPDF {
	if keyEnv == "" {
		keyEnv = "UNIDOC_LICENSE_API_KEY"
	}
	key := os.Getenv(keyEnv)
	if key == "" {
		return &UniPDF{err: fmt.Errorf("%w: env %s is empty", ErrNoLicense, keyEnv)}
	}
	licenseOnce.Do(func() {
		licenseErr = license.SetMeteredKey(key)
	})
	return &UniPDF{err: licenseErr}
}

func (u *UniPDF) Name() string { return "unipdf" }

func (u *UniPDF) ParsePages(ctx context.Context, path string) ([]string, error) {
	if u.err != nil {
		return nil, u.err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return nil, err
	}

	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		ex, err := extractor.New(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		text, err := ex.ExtractText()
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
