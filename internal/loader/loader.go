// Package loader reads every PDF in a folder into page documents.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"pdfchat/internal/domain"
)

var ErrFolderNotFound = errors.New("pdf folder not found")

// Loader turns the PDFs of a folder into one Document per page.
type Loader struct {
	parser domain.PageParser
	log    logrus.FieldLogger
}

func New(parser domain.PageParser, log logrus.FieldLogger) *Loader {
	return &Loader{parser: parser, log: log}
}

// Load parses every *.pdf file directly inside dir, in name order. Pages are
// returned in page order per file. Any parse failure aborts the load.
func (l *Loader) Load(ctx context.Context, dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, dir)
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var docs []domain.Document
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		pages, err := l.parser.ParsePages(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		for i, text := range pages {
			docs = append(docs, domain.NewDocument(entry.Name(), i+1, 0, text))
		}
		l.log.WithFields(logrus.Fields{
			"file":   entry.Name(),
			"pages":  len(pages),
			"parser": l.parser.Name(),
		}).Debug("parsed pdf")
	}
	l.log.WithField("documents", len(docs)).Info("loaded pdf folder")
	return docs, nil
}
