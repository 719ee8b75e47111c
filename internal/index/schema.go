package index

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/nakedpineapple/storesearch/internal/domain"
)

// Index field names, shared by the builder and the query builders.
// Stored fields come back verbatim in results; the *_text fields are
// tokenized and stemmed for matching and are never returned directly.
const (
	fieldDocType     = "doc_type"
	fieldHandle      = "handle"
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldImageURL    = "image_url"
	fieldPrice       = "price"
	fieldPriceCents  = "price_cents"
	fieldAvailable   = "available"

	fieldTitleText       = "title_text"
	fieldDescriptionText = "description_text"
	fieldTagsText        = "tags_text"
)

// indexDoc is the flat document shape handed to bleve. Field names are
// bound via json tags and must match the field constants above.
type indexDoc struct {
	DocType     string `json:"doc_type"`
	Handle      string `json:"handle"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Price       string `json:"price"`
	PriceCents  uint64 `json:"price_cents"`
	Available   bool   `json:"available"`

	TitleText       string `json:"title_text"`
	DescriptionText string `json:"description_text"`
	TagsText        string `json:"tags_text"`
}

func newIndexDoc(d domain.Document) indexDoc {
	return indexDoc{
		DocType:         string(d.DocType),
		Handle:          d.Handle,
		Title:           d.Title,
		Description:     d.Description,
		ImageURL:        d.ImageURL,
		Price:           d.Price,
		PriceCents:      d.PriceCents,
		Available:       d.Available,
		TitleText:       d.Title,
		DescriptionText: d.Description,
		TagsText:        strings.Join(d.Tags, " "),
	}
}

// buildIndexMapping creates the bleve mapping: stored-only display fields,
// a keyword doc_type, stemmed text fields for matching, and numeric/boolean
// fields for filtering, sorting, and facet scans.
func buildIndexMapping() mapping.IndexMapping {
	storedOnly := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Index = false
		fm.Store = true
		fm.IncludeInAll = false
		return fm
	}

	keyword := bleve.NewKeywordFieldMapping()
	keyword.Store = true
	keyword.IncludeInAll = false

	searchText := func() *mapping.FieldMapping {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = en.AnalyzerName
		fm.Store = false
		fm.IncludeInAll = false
		fm.IncludeTermVectors = false
		return fm
	}

	numeric := bleve.NewNumericFieldMapping()
	numeric.Store = true
	numeric.IncludeInAll = false

	boolean := bleve.NewBooleanFieldMapping()
	boolean.Store = true
	boolean.IncludeInAll = false

	doc := bleve.NewDocumentStaticMapping()
	doc.AddFieldMappingsAt(fieldDocType, keyword)
	doc.AddFieldMappingsAt(fieldHandle, storedOnly())
	doc.AddFieldMappingsAt(fieldTitle, storedOnly())
	doc.AddFieldMappingsAt(fieldDescription, storedOnly())
	doc.AddFieldMappingsAt(fieldImageURL, storedOnly())
	doc.AddFieldMappingsAt(fieldPrice, storedOnly())
	doc.AddFieldMappingsAt(fieldPriceCents, numeric)
	doc.AddFieldMappingsAt(fieldAvailable, boolean)
	doc.AddFieldMappingsAt(fieldTitleText, searchText())
	doc.AddFieldMappingsAt(fieldDescriptionText, searchText())
	doc.AddFieldMappingsAt(fieldTagsText, searchText())

	im := bleve.NewIndexMapping()
	im.DefaultMapping = doc
	return im
}
