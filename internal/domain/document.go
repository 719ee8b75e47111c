// Package domain holds the core types shared by producers, the index
// builder, and the search engine.
package domain

import "fmt"

// DocType identifies the kind of an indexed document.
type DocType string

// Known document types.
const (
	DocTypeProduct    DocType = "product"
	DocTypeCollection DocType = "collection"
	DocTypePage       DocType = "page"
	DocTypeArticle    DocType = "article"
)

// ParseDocType converts a stored tag back to a DocType.
// An unknown tag is corruption and wraps ErrInvalidDocType.
func ParseDocType(s string) (DocType, error) {
	switch t := DocType(s); t {
	case DocTypeProduct, DocTypeCollection, DocTypePage, DocTypeArticle:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDocType, s)
	}
}

// IsValid reports whether the doc type is one of the known variants.
func (t DocType) IsValid() bool {
	_, err := ParseDocType(string(t))
	return err == nil
}

// Document is one ingestion document as supplied by a producer.
// Display fields (Title, Description, ImageURL, Price) are stored verbatim;
// Title, Description, and Tags are additionally tokenized for matching.
// Producers are responsible for their own deduplication.
type Document struct {
	DocType     DocType
	Handle      string
	Title       string
	Description string
	ImageURL    string
	Price       string
	PriceCents  uint64
	Available   bool
	Tags        []string
}

// ID returns the index identifier for the document. Handles are unique
// per doc type, so the pair identifies a document.
func (d Document) ID() string {
	return string(d.DocType) + ":" + d.Handle
}

// Validate checks that the document can be indexed.
func (d Document) Validate() error {
	if !d.DocType.IsValid() {
		return fmt.Errorf("%w: doc type %q", ErrInvalidDocument, d.DocType)
	}
	if d.Handle == "" {
		return fmt.Errorf("%w: handle is required", ErrInvalidDocument)
	}
	if d.Title == "" {
		return fmt.Errorf("%w: title is required for %s", ErrInvalidDocument, d.ID())
	}
	return nil
}
