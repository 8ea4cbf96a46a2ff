// Package pdfparser turns PDF files into per-page text.
package pdfparser

import (
	"fmt"

	"pdfchat/internal/domain"
)

// New returns the parser registered under name.
func New(name, licenseKeyEnv string) (domain.PageParser, error) {
	switch name {
	case "", "ledongthuc":
		return NewPlainText(), nil
	case "unipdf":
		return NewUniPDF(licenseKeyEnv), nil
	default:
		return nil, fmt.Errorf("unknown pdf parser: %s", name)
	}
}
