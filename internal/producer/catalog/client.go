// Package catalog produces index documents from the commerce catalog API:
// cursor-paged product and collection listings converted to the ingestion
// document shape.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nakedpineapple/storesearch/internal/domain"
)

// Config holds the catalog API client settings.
type Config struct {
	BaseURL  string
	Token    string
	PageSize int
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Client fetches products and collections from the catalog API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	pageSize   int
	logger     *zap.Logger
}

// NewClient creates a catalog API client.
func NewClient(cfg Config) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		pageSize:   pageSize,
		logger:     logger,
	}
}

// product is the catalog API wire shape for a product.
type product struct {
	Handle           string   `json:"handle"`
	Title            string   `json:"title"`
	DescriptionHTML  string   `json:"description_html"`
	Tags             []string `json:"tags"`
	AvailableForSale bool     `json:"available_for_sale"`
	FeaturedImage    *image   `json:"featured_image"`
	PriceRange       struct {
		MinVariantPrice money `json:"min_variant_price"`
	} `json:"price_range"`
}

// collection is the catalog API wire shape for a collection.
type collection struct {
	Handle          string `json:"handle"`
	Title           string `json:"title"`
	DescriptionHTML string `json:"description_html"`
	Image           *image `json:"image"`
}

type image struct {
	URL string `json:"url"`
}

type money struct {
	Amount string `json:"amount"`
}

type pageInfo struct {
	HasNextPage bool   `json:"has_next_page"`
	EndCursor   string `json:"end_cursor"`
}

type productsPage struct {
	Products []product `json:"products"`
	PageInfo pageInfo  `json:"page_info"`
}

type collectionsPage struct {
	Collections []collection `json:"collections"`
	PageInfo    pageInfo     `json:"page_info"`
}

// Products fetches every product, following cursor pagination.
func (c *Client) Products(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	cursor := ""

	for {
		var page productsPage
		if err := c.getPage(ctx, "/products", cursor, &page); err != nil {
			return nil, fmt.Errorf("fetch products: %w", err)
		}

		for _, p := range page.Products {
			docs = append(docs, productDocument(p))
		}

		if !page.PageInfo.HasNextPage {
			return docs, nil
		}
		cursor = page.PageInfo.EndCursor
	}
}

// Collections fetches every collection, following cursor pagination.
func (c *Client) Collections(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	cursor := ""

	for {
		var page collectionsPage
		if err := c.getPage(ctx, "/collections", cursor, &page); err != nil {
			return nil, fmt.Errorf("fetch collections: %w", err)
		}

		for _, col := range page.Collections {
			docs = append(docs, collectionDocument(col))
		}

		if !page.PageInfo.HasNextPage {
			return docs, nil
		}
		cursor = page.PageInfo.EndCursor
	}
}

func (c *Client) getPage(ctx context.Context, path, cursor string, out any) error {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageSize))
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog API returned %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func productDocument(p product) domain.Document {
	imageURL := ""
	if p.FeaturedImage != nil {
		imageURL = p.FeaturedImage.URL
	}
	amount := p.PriceRange.MinVariantPrice.Amount

	return domain.Document{
		DocType:     domain.DocTypeProduct,
		Handle:      p.Handle,
		Title:       p.Title,
		Description: stripHTML(p.DescriptionHTML),
		ImageURL:    imageURL,
		Price:       formatPrice(amount),
		PriceCents:  parsePriceCents(amount),
		Available:   p.AvailableForSale,
		Tags:        p.Tags,
	}
}

func collectionDocument(col collection) domain.Document {
	imageURL := ""
	if col.Image != nil {
		imageURL = col.Image.URL
	}

	// Collections carry no price and are always "available".
	return domain.Document{
		DocType:     domain.DocTypeCollection,
		Handle:      col.Handle,
		Title:       col.Title,
		Description: stripHTML(col.DescriptionHTML),
		ImageURL:    imageURL,
		Available:   true,
	}
}
