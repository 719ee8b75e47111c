package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nakedpineapple/storesearch/internal/db"
	"github.com/nakedpineapple/storesearch/internal/domain"
	"github.com/nakedpineapple/storesearch/internal/logger"
	"github.com/nakedpineapple/storesearch/internal/metrics"
)

// Cache keys for catalog listings.
const (
	productsCacheKey    = "storesearch:catalog_cache:products"
	collectionsCacheKey = "storesearch:catalog_cache:collections"
)

// Source produces catalog documents. Implemented by Client.
type Source interface {
	Products(ctx context.Context) ([]domain.Document, error)
	Collections(ctx context.Context) ([]domain.Document, error)
}

// CachedSource decorates a Source with a key-value response cache.
// Cache failures degrade to a direct fetch, never to an error.
type CachedSource struct {
	source Source
	store  db.Store
	ttl    time.Duration
}

// NewCachedSource wraps source with a response cache backed by store.
func NewCachedSource(source Source, store db.Store, ttl time.Duration) *CachedSource {
	return &CachedSource{source: source, store: store, ttl: ttl}
}

// Products returns cached products when present, otherwise fetches and caches.
func (c *CachedSource) Products(ctx context.Context) ([]domain.Document, error) {
	return c.lookup(ctx, productsCacheKey, c.source.Products)
}

// Collections returns cached collections when present, otherwise fetches and caches.
func (c *CachedSource) Collections(ctx context.Context) ([]domain.Document, error) {
	return c.lookup(ctx, collectionsCacheKey, c.source.Collections)
}

func (c *CachedSource) lookup(
	ctx context.Context, key string, fetch func(context.Context) ([]domain.Document, error),
) ([]domain.Document, error) {
	log := logger.FromContext(ctx)

	data, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		var docs []domain.Document
		if unmarshalErr := json.Unmarshal(data, &docs); unmarshalErr == nil {
			metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
			return docs, nil
		}
		log.Warn("corrupt catalog cache entry, refetching", zap.String("key", key))
	case errors.Is(err, db.ErrKeyNotFound):
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
	default:
		metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
		log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	docs, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(docs); err == nil {
		if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
			log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return docs, nil
}
