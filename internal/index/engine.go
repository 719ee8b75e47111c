package index

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/blevesearch/bleve/v2"
	blevesearch "github.com/blevesearch/bleve/v2/search"
	"go.uber.org/zap"

	"github.com/nakedpineapple/storesearch/internal/domain"
	"github.com/nakedpineapple/storesearch/internal/domain/search/filter"
	"github.com/nakedpineapple/storesearch/internal/domain/search/order"
	"github.com/nakedpineapple/storesearch/internal/domain/search/result"
	"github.com/nakedpineapple/storesearch/internal/metrics"
)

const (
	// suggestOverfetchFactor widens the suggestion fetch so each doc type
	// can fill its own cap after grouping.
	suggestOverfetchFactor = 4
	// priceSortOverfetchFactor widens the relevance fetch before the
	// in-memory price sort. Deliberate approximation: a very broad query
	// can still miss the globally cheapest items.
	priceSortOverfetchFactor = 2
	// facetScanLimit bounds the facet aggregation pass.
	facetScanLimit = 10000
)

// Engine exposes the two public query operations against whatever snapshot
// the handle currently holds.
type Engine struct {
	handle *Handle
	logger *zap.Logger
}

// NewEngine creates a search engine reading through the given handle.
func NewEngine(handle *Handle, logger *zap.Logger) *Engine {
	return &Engine{handle: handle, logger: logger}
}

// IsReady reports whether a snapshot has been published.
func (e *Engine) IsReady() bool { return e.handle.IsReady() }

// NumDocs returns the current snapshot's document count, 0 when not ready.
func (e *Engine) NumDocs() uint64 { return e.handle.NumDocs() }

// Search runs a typeahead suggestion query across all document types and
// groups the hits by type, each group independently capped at limit.
// A blank query or a not-yet-ready index yields empty results, not an error.
func (e *Engine) Search(ctx context.Context, queryStr string, limit int) (_ result.Results, err error) {
	start := time.Now()
	defer func() { recordSearch("suggest", start, err) }()

	normalized, terms := splitQuery(queryStr)
	if len(terms) == 0 || limit <= 0 {
		return result.Empty(normalized), nil
	}

	snap, release, ok := e.handle.acquire()
	if !ok {
		return result.Empty(normalized), nil
	}
	defer release()

	req := bleve.NewSearchRequestOptions(suggestionQuery(terms), limit*suggestOverfetchFactor, 0, false)
	req.Fields = []string{"*"}

	res, err := snap.index.SearchInContext(ctx, req)
	if err != nil {
		return result.Results{}, fmt.Errorf("execute suggestion query: %w", err)
	}

	var products, collections, pages, articles []result.Result
	for _, hit := range res.Hits {
		r, convErr := hitToResult(hit)
		if convErr != nil {
			return result.Results{}, convErr
		}

		switch r.DocType() {
		case domain.DocTypeProduct:
			if len(products) < limit {
				products = append(products, r)
			}
		case domain.DocTypeCollection:
			if len(collections) < limit {
				collections = append(collections, r)
			}
		case domain.DocTypePage:
			if len(pages) < limit {
				pages = append(pages, r)
			}
		case domain.DocTypeArticle:
			if len(articles) < limit {
				articles = append(articles, r)
			}
		}
	}

	return result.NewGrouped(normalized, products, collections, pages, articles), nil
}

// SearchFiltered runs a storefront product search: free text plus
// structured filters, the requested sort order, and facet counts over the
// unfiltered match set. A not-yet-ready index yields empty results.
func (e *Engine) SearchFiltered(
	ctx context.Context, queryStr string, f filter.Filters, ord order.Order, limit int,
) (_ result.Results, err error) {
	start := time.Now()
	defer func() { recordSearch("filtered", start, err) }()

	normalized, terms := splitQuery(queryStr)
	if limit <= 0 {
		return result.Empty(normalized), nil
	}

	snap, release, ok := e.handle.acquire()
	if !ok {
		return result.Empty(normalized), nil
	}
	defer release()

	size := limit
	if ord == order.PriceAsc || ord == order.PriceDesc {
		size = limit * priceSortOverfetchFactor
	}

	req := bleve.NewSearchRequestOptions(storefrontQuery(terms, f), size, 0, false)
	req.Fields = []string{"*"}

	res, err := snap.index.SearchInContext(ctx, req)
	if err != nil {
		return result.Results{}, fmt.Errorf("execute storefront query: %w", err)
	}

	products := make([]result.Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		r, convErr := hitToResult(hit)
		if convErr != nil {
			return result.Results{}, convErr
		}
		products = append(products, r)
	}

	if ord == order.PriceAsc || ord == order.PriceDesc {
		sort.SliceStable(products, func(i, j int) bool {
			pi, _ := products[i].PriceCents()
			pj, _ := products[j].PriceCents()
			if ord == order.PriceAsc {
				return pi < pj
			}
			return pi > pj
		})
		if len(products) > limit {
			products = products[:limit]
		}
	}

	facets, err := computeFacets(ctx, snap, terms)
	if err != nil {
		return result.Results{}, err
	}

	return result.NewFiltered(normalized, products, facets), nil
}

// computeFacets runs the bounded aggregate pass: total, in-stock and
// out-of-stock counts plus the price range across every product matching
// the free text, ignoring the availability and price filters.
func computeFacets(ctx context.Context, snap *Snapshot, terms []string) (result.Facets, error) {
	req := bleve.NewSearchRequestOptions(facetQuery(terms), facetScanLimit, 0, false)
	req.Fields = []string{fieldAvailable, fieldPriceCents}

	res, err := snap.index.SearchInContext(ctx, req)
	if err != nil {
		return result.Facets{}, fmt.Errorf("execute facet query: %w", err)
	}

	var total, inStock, outOfStock int
	var minPrice uint64 = ^uint64(0)
	var maxPrice uint64

	for _, hit := range res.Hits {
		total++

		if getBool(hit.Fields, fieldAvailable) {
			inStock++
		} else {
			outOfStock++
		}

		if price, ok := getUint64(hit.Fields, fieldPriceCents); ok && price > 0 {
			if price < minPrice {
				minPrice = price
			}
			if price > maxPrice {
				maxPrice = price
			}
		}
	}

	if minPrice == ^uint64(0) {
		minPrice = 0
	}

	return result.NewFacets(total, inStock, outOfStock, minPrice, maxPrice), nil
}

// hitToResult converts stored fields back into a search result. A doc_type
// that does not parse is corruption and fails the operation.
func hitToResult(hit *blevesearch.DocumentMatch) (result.Result, error) {
	docType, err := domain.ParseDocType(getString(hit.Fields, fieldDocType))
	if err != nil {
		return result.Result{}, fmt.Errorf("corrupt document %s: %w", hit.ID, err)
	}

	price := getString(hit.Fields, fieldPrice)
	priceCents, _ := getUint64(hit.Fields, fieldPriceCents)

	return result.New(
		docType,
		getString(hit.Fields, fieldHandle),
		getString(hit.Fields, fieldTitle),
		getString(hit.Fields, fieldDescription),
		getString(hit.Fields, fieldImageURL),
		price,
		priceCents,
		price != "",
		getBool(hit.Fields, fieldAvailable),
		hit.Score,
	), nil
}

func recordSearch(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SearchDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	metrics.SearchesTotal.WithLabelValues(operation, status).Inc()
}

func getString(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func getUint64(fields map[string]interface{}, key string) (uint64, bool) {
	if v, ok := fields[key].(float64); ok && v >= 0 {
		return uint64(v), true
	}
	return 0, false
}

func getBool(fields map[string]interface{}, key string) bool {
	v, ok := fields[key].(bool)
	return ok && v
}
