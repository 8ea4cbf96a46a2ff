package domain

import (
	"strconv"

	"github.com/google/uuid"
)

var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("pdfchat/document"))

// NewDocument builds a document whose ID is a UUIDv5 of source, page and
// chunk, so rebuilding an unchanged folder yields the same IDs.
func NewDocument(source string, page, chunk int, text string) Document {
	key := source + "#" + strconv.Itoa(page)
	if chunk > 0 {
		key += "#" + strconv.Itoa(chunk)
	}
	return Document{
		ID:     uuid.NewSHA1(documentNamespace, []byte(key)).String(),
		Text:   text,
		Source: source,
		Page:   page,
		Chunk:  chunk,
	}
}
