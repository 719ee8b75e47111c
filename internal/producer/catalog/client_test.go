package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nakedpineapple/storesearch/internal/domain"
)

func TestClient_ProductsFollowsPagination(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{
				"products": [{
					"handle": "red-mug",
					"title": "Red Mug",
					"description_html": "<p>A bright red mug.</p>",
					"tags": ["gift"],
					"available_for_sale": true,
					"featured_image": {"url": "https://cdn.example.com/red.jpg"},
					"price_range": {"min_variant_price": {"amount": "10.00"}}
				}],
				"page_info": {"has_next_page": true, "end_cursor": "c1"}
			}`)
		case "c1":
			fmt.Fprint(w, `{
				"products": [{
					"handle": "blue-mug",
					"title": "Blue Mug",
					"description_html": "A deep blue mug.",
					"available_for_sale": false,
					"price_range": {"min_variant_price": {"amount": "24.99"}}
				}],
				"page_info": {"has_next_page": false, "end_cursor": ""}
			}`)
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "secret", PageSize: 1})

	docs, err := c.Products(context.Background())
	if err != nil {
		t.Fatalf("Products: %v", err)
	}

	if gotAuth != "Bearer secret" {
		t.Errorf("expected bearer token, got %q", gotAuth)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 products across pages, got %d", len(docs))
	}

	first := docs[0]
	if first.DocType != domain.DocTypeProduct {
		t.Errorf("expected product doc type, got %s", first.DocType)
	}
	if first.Handle != "red-mug" {
		t.Errorf("expected red-mug, got %s", first.Handle)
	}
	if first.Description != "A bright red mug." {
		t.Errorf("expected stripped description, got %q", first.Description)
	}
	if first.Price != "$10.00" || first.PriceCents != 1000 {
		t.Errorf("price = %q / %d", first.Price, first.PriceCents)
	}
	if !first.Available {
		t.Error("expected first product available")
	}

	second := docs[1]
	if second.PriceCents != 2499 {
		t.Errorf("expected 2499 cents, got %d", second.PriceCents)
	}
	if second.ImageURL != "" {
		t.Errorf("expected no image, got %q", second.ImageURL)
	}
}

func TestClient_CollectionsConvert(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collections" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"collections": [{
				"handle": "mugs",
				"title": "Mugs",
				"description_html": "<h1>All mugs</h1>",
				"image": {"url": "https://cdn.example.com/mugs.jpg"}
			}],
			"page_info": {"has_next_page": false, "end_cursor": ""}
		}`)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	docs, err := c.Collections(context.Background())
	if err != nil {
		t.Fatalf("Collections: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 collection, got %d", len(docs))
	}

	col := docs[0]
	if col.DocType != domain.DocTypeCollection {
		t.Errorf("expected collection doc type, got %s", col.DocType)
	}
	if col.Description != "All mugs" {
		t.Errorf("expected stripped description, got %q", col.Description)
	}
	if col.Price != "" || col.PriceCents != 0 {
		t.Error("collections must carry no price")
	}
	if !col.Available {
		t.Error("collections are always available")
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})

	if _, err := c.Products(context.Background()); err == nil {
		t.Error("expected an error on a non-200 response")
	}
}
