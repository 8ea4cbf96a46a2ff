package pdfparser

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/pdfparser/pdftest"
)

func TestNew(t *testing.T) {
	p, err := New("", "")
	require.NoError(t, err)
	assert.Equal(t, "ledongthuc", p.Name())

	p, err = New("unipdf", "PDFCHAT_TEST_UNSET_KEY")
	require.NoError(t, err)
	assert.Equal(t, "unipdf", p.Name())

	_, err = New("pdfium", "")
	assert.ErrorContains(t, err, "unknown pdf parser")
}

func TestParsersRejectNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is plain text, not a pdf"), 0o644))

	_, err := NewPlainText().ParsePages(context.Background(), path)
	assert.Error(t, err)

	_, err = NewUniPDF("PDFCHAT_TEST_UNSET_KEY").ParsePages(context.Background(), path)
	assert.Error(t, err)
}

func TestParsersMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.pdf")

	_, err := NewPlainText().ParsePages(context.Background(), missing)
	assert.Error(t, err)

	_, err = NewUniPDF("").ParsePages(context.Background(), missing)
	assert.Error(t, err)
}

func TestPlainTextParsesPagesInOrder(t *testing.T) {
	path, err := pdftest.Write(t.TempDir(), "abc.pdf", "Alpha", "Bravo", "Charlie")
	require.NoError(t, err)

	pages, err := NewPlainText().ParsePages(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "Alpha", strings.TrimSpace(pages[0]))
	assert.Equal(t, "Bravo", strings.TrimSpace(pages[1]))
	assert.Equal(t, "Charlie", strings.TrimSpace(pages[2]))
}

func TestUniPDFWithoutLicense(t *testing.T) {
	path, err := pdftest.Write(t.TempDir(), "abc.pdf", "Alpha")
	require.NoError(t, err)

	_, err = NewUniPDF("PDFCHAT_TEST_UNSET_KEY").ParsePages(context.Background(), path)
	assert.ErrorIs(t, err, ErrNoLicense)
	assert.ErrorContains(t, err, "PDFCHAT_TEST_UNSET_KEY")
}
