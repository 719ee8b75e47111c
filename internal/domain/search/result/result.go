// Package result defines search engine output types.
package result

import "github.com/nakedpineapple/storesearch/internal/domain"

// Result is a single search hit assembled from stored fields.
type Result struct {
	docType     domain.DocType
	handle      string
	title       string
	description string
	imageURL    string
	price       string
	priceCents  uint64
	hasPrice    bool
	available   bool
	score       float64
}

// New creates a search result. Empty imageURL/price mean "absent";
// hasPrice distinguishes a real zero price from no price at all.
func New(
	docType domain.DocType, handle, title, description string,
	imageURL, price string, priceCents uint64, hasPrice bool,
	available bool, score float64,
) Result {
	return Result{
		docType:     docType,
		handle:      handle,
		title:       title,
		description: description,
		imageURL:    imageURL,
		price:       price,
		priceCents:  priceCents,
		hasPrice:    hasPrice,
		available:   available,
		score:       score,
	}
}

// DocType returns the document type.
func (r Result) DocType() domain.DocType { return r.docType }

// Handle returns the URL handle of the document.
func (r Result) Handle() string { return r.handle }

// Title returns the display title.
func (r Result) Title() string { return r.title }

// Description returns the display description.
func (r Result) Description() string { return r.description }

// ImageURL returns the image URL and whether one is present.
func (r Result) ImageURL() (string, bool) { return r.imageURL, r.imageURL != "" }

// Price returns the display price string and whether one is present.
func (r Result) Price() (string, bool) { return r.price, r.price != "" }

// PriceCents returns the price in cents and whether one is present.
func (r Result) PriceCents() (uint64, bool) { return r.priceCents, r.hasPrice }

// Available reports whether the document is in stock.
func (r Result) Available() bool { return r.available }

// Score returns the relevance score.
func (r Result) Score() float64 { return r.score }

// Facets are aggregate counts over the full product match set,
// independent of pagination and of availability/price filters.
type Facets struct {
	totalCount      int
	inStockCount    int
	outOfStockCount int
	minPriceCents   uint64
	maxPriceCents   uint64
}

// NewFacets creates facet counts.
func NewFacets(total, inStock, outOfStock int, minPrice, maxPrice uint64) Facets {
	return Facets{
		totalCount:      total,
		inStockCount:    inStock,
		outOfStockCount: outOfStock,
		minPriceCents:   minPrice,
		maxPriceCents:   maxPrice,
	}
}

// TotalCount returns the number of matching products before the limit.
func (f Facets) TotalCount() int { return f.totalCount }

// InStockCount returns the number of in-stock matches.
func (f Facets) InStockCount() int { return f.inStockCount }

// OutOfStockCount returns the number of out-of-stock matches.
func (f Facets) OutOfStockCount() int { return f.outOfStockCount }

// MinPriceCents returns the minimum non-zero price among matches, 0 if none.
func (f Facets) MinPriceCents() uint64 { return f.minPriceCents }

// MaxPriceCents returns the maximum price among matches, 0 if none.
func (f Facets) MaxPriceCents() uint64 { return f.maxPriceCents }

// Results holds search output: hits grouped by document type for
// suggestions, or a single product list plus facets for filtered search.
type Results struct {
	query       string
	products    []Result
	collections []Result
	pages       []Result
	articles    []Result
	facets      Facets
}

// Empty creates an empty result set echoing the normalized query.
// Returned when the index is not ready or the query is blank.
func Empty(query string) Results {
	return Results{query: query}
}

// NewGrouped creates suggestion results grouped by document type.
func NewGrouped(query string, products, collections, pages, articles []Result) Results {
	return Results{
		query:       query,
		products:    products,
		collections: collections,
		pages:       pages,
		articles:    articles,
	}
}

// NewFiltered creates filtered search results: products plus facets.
func NewFiltered(query string, products []Result, facets Facets) Results {
	return Results{query: query, products: products, facets: facets}
}

// Query returns the normalized query the results answer.
func (r Results) Query() string { return r.query }

// Products returns the product hits.
func (r Results) Products() []Result { return r.products }

// Collections returns the collection hits.
func (r Results) Collections() []Result { return r.collections }

// Pages returns the page hits.
func (r Results) Pages() []Result { return r.pages }

// Articles returns the article hits.
func (r Results) Articles() []Result { return r.articles }

// Facets returns the facet counts (zero for suggestion results).
func (r Results) Facets() Facets { return r.facets }

// IsEmpty reports whether there are no hits of any type.
func (r Results) IsEmpty() bool {
	return len(r.products) == 0 && len(r.collections) == 0 &&
		len(r.pages) == 0 && len(r.articles) == 0
}

// Total returns the number of hits across all types.
func (r Results) Total() int {
	return len(r.products) + len(r.collections) + len(r.pages) + len(r.articles)
}
