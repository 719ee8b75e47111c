// Package chi wires the search engine behind an HTTP API.
package chi

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nakedpineapple/storesearch/internal/domain/search/filter"
	"github.com/nakedpineapple/storesearch/internal/domain/search/order"
	"github.com/nakedpineapple/storesearch/internal/domain/search/result"
	"github.com/nakedpineapple/storesearch/internal/index"
	"github.com/nakedpineapple/storesearch/internal/version"
)

// Server exposes the search HTTP API.
type Server struct {
	engine       *index.Engine
	suggestLimit int
	defaultLimit int
	maxLimit     int
	logger       *zap.Logger
}

// NewServer creates an HTTP API server over engine.
func NewServer(engine *index.Engine, suggestLimit, defaultLimit, maxLimit int, logger *zap.Logger) *Server {
	return &Server{
		engine:       engine,
		suggestLimit: suggestLimit,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logger,
	}
}

// Routes mounts the API handlers on a router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/search", s.Search)
	r.Get("/search/suggest", s.Suggest)
	r.Get("/healthz", s.Health)
	r.Get("/metrics", s.Metrics)
}

// resultItem is the wire shape of a single search hit. Absent optional
// fields are omitted rather than sent empty.
type resultItem struct {
	DocType     string  `json:"doc_type"`
	Handle      string  `json:"handle"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url,omitempty"`
	Price       string  `json:"price,omitempty"`
	PriceCents  *uint64 `json:"price_cents,omitempty"`
	Available   bool    `json:"available"`
	Score       float64 `json:"score"`
}

type facetsResponse struct {
	Total         int    `json:"total"`
	InStock       int    `json:"in_stock"`
	OutOfStock    int    `json:"out_of_stock"`
	MinPriceCents uint64 `json:"min_price_cents"`
	MaxPriceCents uint64 `json:"max_price_cents"`
}

type suggestResponse struct {
	Query       string       `json:"query"`
	Products    []resultItem `json:"products"`
	Collections []resultItem `json:"collections"`
	Pages       []resultItem `json:"pages"`
	Articles    []resultItem `json:"articles"`
}

type searchResponse struct {
	Query    string         `json:"query"`
	Products []resultItem   `json:"products"`
	Facets   facetsResponse `json:"facets"`
}

type healthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	IndexReady bool   `json:"index_ready"`
	NumDocs    uint64 `json:"num_docs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Suggest handles GET /search/suggest: typeahead results grouped by
// document type.
func (s *Server) Suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := s.parseLimit(r.URL.Query().Get("limit"), s.suggestLimit)

	res, err := s.engine.Search(r.Context(), q, limit)
	if err != nil {
		s.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{
		Query:       res.Query(),
		Products:    itemsToWire(res.Products()),
		Collections: itemsToWire(res.Collections()),
		Pages:       itemsToWire(res.Pages()),
		Articles:    itemsToWire(res.Articles()),
	})
}

// Search handles GET /search: the storefront product search with filters,
// sort order and facets.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := s.parseLimit(r.URL.Query().Get("limit"), s.defaultLimit)
	ord := order.Parse(r.URL.Query().Get("sort_by"))

	f, err := parseFilters(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := s.engine.SearchFiltered(r.Context(), q, f, ord, limit)
	if err != nil {
		s.handleError(w, err)
		return
	}

	facets := res.Facets()
	writeJSON(w, http.StatusOK, searchResponse{
		Query:    res.Query(),
		Products: itemsToWire(res.Products()),
		Facets: facetsResponse{
			Total:         facets.TotalCount(),
			InStock:       facets.InStockCount(),
			OutOfStock:    facets.OutOfStockCount(),
			MinPriceCents: facets.MinPriceCents(),
			MaxPriceCents: facets.MaxPriceCents(),
		},
	})
}

// Health handles GET /healthz. The service is up even before the first
// snapshot publishes; readiness is reported separately.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Version:    version.String(),
		IndexReady: s.engine.IsReady(),
		NumDocs:    s.engine.NumDocs(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// parseFilters reads the storefront filter params: availability as a 0/1
// flag and a price range in dollars, converted to cents.
func parseFilters(r *http.Request) (filter.Filters, error) {
	f := filter.New()
	q := r.URL.Query()

	if v := q.Get("filter.v.availability"); v != "" {
		avail, err := strconv.ParseBool(v)
		if err != nil {
			return filter.Filters{}, &paramError{"filter.v.availability", v}
		}
		f = f.WithAvailable(avail)
	}

	if v := q.Get("filter.v.price.gte"); v != "" {
		cents, err := dollarsToCents(v)
		if err != nil {
			return filter.Filters{}, &paramError{"filter.v.price.gte", v}
		}
		f = f.WithMinPriceCents(cents)
	}

	if v := q.Get("filter.v.price.lte"); v != "" {
		cents, err := dollarsToCents(v)
		if err != nil {
			return filter.Filters{}, &paramError{"filter.v.price.lte", v}
		}
		f = f.WithMaxPriceCents(cents)
	}

	return f, nil
}

type paramError struct {
	param string
	value string
}

func (e *paramError) Error() string {
	return "invalid value " + strconv.Quote(e.value) + " for " + e.param
}

func dollarsToCents(v string) (uint64, error) {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < 0 {
		return 0, &paramError{"price", v}
	}
	return uint64(math.Round(n * 100)), nil
}

func (s *Server) parseLimit(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > s.maxLimit {
		return s.maxLimit
	}
	return n
}

func (s *Server) handleError(w http.ResponseWriter, err error) {
	s.logger.Error("search failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func itemsToWire(rs []result.Result) []resultItem {
	items := make([]resultItem, len(rs))
	for i, r := range rs {
		item := resultItem{
			DocType:     string(r.DocType()),
			Handle:      r.Handle(),
			Title:       r.Title(),
			Description: r.Description(),
			Available:   r.Available(),
			Score:       r.Score(),
		}
		if url, ok := r.ImageURL(); ok {
			item.ImageURL = url
		}
		if price, ok := r.Price(); ok {
			item.Price = price
		}
		if cents, ok := r.PriceCents(); ok {
			item.PriceCents = &cents
		}
		items[i] = item
	}
	return items
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
