package index

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/nakedpineapple/storesearch/internal/domain"
	"github.com/nakedpineapple/storesearch/internal/domain/search/filter"
	"github.com/nakedpineapple/storesearch/internal/domain/search/order"
)

func storefrontFixture() []domain.Document {
	return []domain.Document{
		{
			DocType:     domain.DocTypeProduct,
			Handle:      "red-mug",
			Title:       "Red Mug",
			Description: "A bright red ceramic mug.",
			ImageURL:    "https://cdn.example.com/red-mug.jpg",
			Price:       "$10.00",
			PriceCents:  1000,
			Available:   true,
			Tags:        []string{"gift", "kitchen"},
		},
		{
			DocType:     domain.DocTypeProduct,
			Handle:      "blue-mug",
			Title:       "Blue Mug",
			Description: "A deep blue ceramic mug.",
			Price:       "$25.00",
			PriceCents:  2500,
			Available:   false,
			Tags:        []string{"kitchen"},
		},
		{
			DocType:     domain.DocTypeCollection,
			Handle:      "mugs",
			Title:       "Mugs",
			Description: "All our mugs.",
			Available:   true,
		},
		{
			DocType:     domain.DocTypePage,
			Handle:      "shipping",
			Title:       "Shipping Policy",
			Description: "How we ship orders.",
			Available:   true,
		},
		{
			DocType:     domain.DocTypeArticle,
			Handle:      "mug-care",
			Title:       "Caring for Your Mug",
			Description: "Keep your mug looking new.",
			Available:   true,
		},
	}
}

func newTestEngine(t *testing.T, docs []domain.Document) *Engine {
	t.Helper()

	h := NewHandle()
	snap, err := BuildSnapshot(context.Background(), docs, 0)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	if err := h.Publish(snap); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	t.Cleanup(func() { _ = snap.Close() })

	return NewEngine(h, zap.NewNop())
}

func TestSearch_GroupsByDocType(t *testing.T) {
	e := newTestEngine(t, storefrontFixture())

	res, err := e.Search(context.Background(), "mug", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(res.Products()) != 2 {
		t.Errorf("expected 2 products, got %d", len(res.Products()))
	}
	if len(res.Collections()) != 1 {
		t.Errorf("expected 1 collection, got %d", len(res.Collections()))
	}
	if len(res.Articles()) != 1 {
		t.Errorf("expected 1 article, got %d", len(res.Articles()))
	}
	if len(res.Pages()) != 0 {
		t.Errorf("expected no pages, got %d", len(res.Pages()))
	}
	if res.Query() != "mug" {
		t.Errorf("expected normalized query %q, got %q", "mug", res.Query())
	}
}

func TestSearch_FuzzyMatchesTypo(t *testing.T) {
	e := newTestEngine(t, storefrontFixture())

	res, err := e.Search(context.Background(), "mugg", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Products()) != 2 {
		t.Errorf("expected fuzzy match on both mugs, got %d products", len(res.Products()))
	}
}

func TestSearch_ShortTermUsesPrefix(t *testing.T) {
	e := newTestEngine(t, storefrontFixture())

	res, err := e.Search(context.Background(), "mu", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Products()) != 2 {
		t.Errorf("expected prefix match on both mugs, got %d products", len(res.Products()))
	}
}

func TestSearch_MatchesOnTags(t *testing.T) {
	e := newTestEngine(t, storefrontFixture())

	res, err := e.Search(context.Background(), "gift", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Products()) != 1 {
		t.Fatalf("expected 1 product via tag, got %d", len(res.Products()))
	}
	if got := res.Products()[0].Handle(); got != "red-mug" {
		t.Errorf("expected red-mug, got %s", got)
	}
}

func TestSearch_PerTypeLimit(t *testing.T) {
	docs := storefrontFixture()
	docs = append(docs, domain.Document{
		DocType: domain.DocTypeProduct, Handle: "green-mug", Title: "Green Mug",
		Price: "$5.00", PriceCents: 500, Available: true,
	})
	e := newTestEngine(t, docs)

	res, err := e.Search(context.Background(), "mug", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Products()) != 2 {
		t.Errorf("expected products capped at 2, got %d", len(res.Products()))
	}
	// The cap is per type, not global.
	if len(res.Collections()) != 1 {
		t.Errorf("expected 1 collection alongside capped products, got %d", len(res.Collections()))
	}
}

func TestSearch_BlankQueryReturnsEmpty(t *testing.T) {
	e := newTestEngine(t, storefrontFixture())

	res, err := e.Search(context.Background(), "   ", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !res.IsEmpty() {
		t.Error("expected empty results for a blank query")
	}
}

func TestSearch_NotReadyReturnsEmpty(t *testing.T) {
	e := NewEngine(NewHandle(), zap.NewNop())

	res, err := e.Search(context.Background(), "mug", 10)
	if err != nil {
		t.Fatalf("Search on a not-ready index must not error: %v", err)
	}
	if !res.IsEmpty() {
		t.Error("expected empty results before the first publish")
	}
	if res.Query() != "mug" {
		t.Errorf("expected query echoed back, got %q", res.Query())
	}
}

func TestSearch_ResultFieldNormalization(t *testing.T) {
	e := newTestEngine(t, storefrontFixture())

	res, err := e.Search(context.Background(), "ship", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Pages()) != 1 {
		t.Fatalf("expected the shipping page, got %d pages", len(res.Pages()))
	}

	page := res.Pages()[0]
	if _, ok := page.ImageURL(); ok {
		t.Error("page without image should report no image URL")
	}
	if _, ok := page.Price(); ok {
		t.Error("page should report no price")
	}
	if _, ok := page.PriceCents(); ok {
		t.Error("page should report no price cents")
	}
}

func TestSearchFiltered_OnlyProducts(t *testing.T) {
	e := newTestEngine(t, storefrontFixture())

	res, err := e.SearchFiltered(context.Background(), "mug", filter.New(), order.Relevance, 10)
	if err != nil {
		t.Fatalf("SearchFiltered: %v", err)
	}
	if len(res.Products()) != 2 {
		t.Errorf("expected 2 products, got %d", len(res.Products()))
	}
	if len(res.Collections())+len(res.Pages())+len(res.Articles()) != 0 {
		t.Error("filtered search must return products only")
	}
}

func TestSearchFiltered_AvailabilityFilter(t *testing.T) {
	e := newTestEngine(t, storefrontFixture())

	res, err := e.SearchFiltered(
		context.Background(), "mug", filter.New().WithAvailable(true), order.Relevance, 10,
	)
	if err != nil {
		t.Fatalf("SearchFiltered: %v", err)
	}
	if len(res.Products()) != 1 {
		t.Fatalf("expected only the available mug, got %d", len(res.Products()))
	}
	if got := res.Products()[0].Handle(); got != "red-mug" {
		t.Errorf("expected red-mug, got %s", got)
	}
}

func TestSearchFiltered_PriceRange(t *testing.T) {
	e := newTestEngine(t, storefrontFixture())

	res, err := e.SearchFiltered(
		context.Background(), "mug", filter.New().WithMinPriceCents(1500), order.Relevance, 10,
	)
	if err != nil {
		t.Fatalf("SearchFiltered: %v", err)
	}
	if len(res.Products()) != 1 {
		t.Fatalf("expected only the expensive mug, got %d", len(res.Products()))
	}
	if got := res.Products()[0].Handle(); got != "blue-mug" {
		t.Errorf("expected blue-mug, got %s", got)
	}

	res, err = e.SearchFiltered(
		context.Background(), "mug",
		filter.New().WithMinPriceCents(500).WithMaxPriceCents(1500), order.Relevance, 10,
	)
	if err != nil {
		t.Fatalf("SearchFiltered: %v", err)
	}
	if len(res.Products()) != 1 || res.Products()[0].Handle() != "red-mug" {
		t.Errorf("expected only red-mug in the 5..15 dollar range, got %d products", len(res.Products()))
	}
}

func TestSearchFiltered_FacetsIgnoreFilters(t *testing.T) {
	e := newTestEngine(t, storefrontFixture())

	// Filter to available only; facets still describe the full match set.
	res, err := e.SearchFiltered(
		context.Background(), "mug", filter.New().WithAvailable(true), order.Relevance, 10,
	)
	if err != nil {
		t.Fatalf("SearchFiltered: %v", err)
	}

	facets := res.Facets()
	if facets.TotalCount() != 2 {
		t.Errorf("expected total 2, got %d", facets.TotalCount())
	}
	if facets.InStockCount() != 1 {
		t.Errorf("expected 1 in stock, got %d", facets.InStockCount())
	}
	if facets.OutOfStockCount() != 1 {
		t.Errorf("expected 1 out of stock, got %d", facets.OutOfStockCount())
	}
	if facets.TotalCount() != facets.InStockCount()+facets.OutOfStockCount() {
		t.Error("stock counts must sum to total")
	}
	if facets.MinPriceCents() != 1000 {
		t.Errorf("expected min price 1000, got %d", facets.MinPriceCents())
	}
	if facets.MaxPriceCents() != 2500 {
		t.Errorf("expected max price 2500, got %d", facets.MaxPriceCents())
	}
}

func TestSearchFiltered_PriceAscending(t *testing.T) {
	docs := storefrontFixture()
	docs = append(docs, domain.Document{
		DocType: domain.DocTypeProduct, Handle: "green-mug", Title: "Green Mug",
		Price: "$5.00", PriceCents: 500, Available: true,
	})
	e := newTestEngine(t, docs)

	res, err := e.SearchFiltered(context.Background(), "mug", filter.New(), order.PriceAsc, 10)
	if err != nil {
		t.Fatalf("SearchFiltered: %v", err)
	}

	products := res.Products()
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	var prev uint64
	for i, p := range products {
		cents, _ := p.PriceCents()
		if i > 0 && cents < prev {
			t.Errorf("prices not ascending at index %d: %d < %d", i, cents, prev)
		}
		prev = cents
	}
}

func TestSearchFiltered_PriceDescending(t *testing.T) {
	e := newTestEngine(t, storefrontFixture())

	res, err := e.SearchFiltered(context.Background(), "mug", filter.New(), order.PriceDesc, 10)
	if err != nil {
		t.Fatalf("SearchFiltered: %v", err)
	}

	products := res.Products()
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	first, _ := products[0].PriceCents()
	second, _ := products[1].PriceCents()
	if first < second {
		t.Errorf("prices not descending: %d before %d", first, second)
	}
}

func TestSearchFiltered_BlankQueryBrowsesAllProducts(t *testing.T) {
	e := newTestEngine(t, storefrontFixture())

	res, err := e.SearchFiltered(context.Background(), "", filter.New(), order.Relevance, 10)
	if err != nil {
		t.Fatalf("SearchFiltered: %v", err)
	}
	if len(res.Products()) != 2 {
		t.Errorf("expected every product on a blank query, got %d", len(res.Products()))
	}
	if res.Facets().TotalCount() != 2 {
		t.Errorf("expected facet total 2, got %d", res.Facets().TotalCount())
	}
}

func TestSearchFiltered_NotReadyReturnsEmpty(t *testing.T) {
	e := NewEngine(NewHandle(), zap.NewNop())

	res, err := e.SearchFiltered(context.Background(), "mug", filter.New(), order.Relevance, 10)
	if err != nil {
		t.Fatalf("SearchFiltered on a not-ready index must not error: %v", err)
	}
	if !res.IsEmpty() {
		t.Error("expected empty results before the first publish")
	}
}
