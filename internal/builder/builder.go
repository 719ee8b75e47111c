package builder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nakedpineapple/storesearch/internal/domain"
	"github.com/nakedpineapple/storesearch/internal/index"
	"github.com/nakedpineapple/storesearch/internal/logger"
	"github.com/nakedpineapple/storesearch/internal/metrics"
)

// Builder rebuilds the search index from the producers and publishes the
// result atomically. A failed rebuild leaves the previously published
// snapshot serving.
type Builder struct {
	catalog   Catalog
	content   Content
	handle    *index.Handle
	batchSize int
	logger    *zap.Logger
}

// New creates a Builder publishing into handle.
func New(catalog Catalog, content Content, handle *index.Handle, batchSize int, logger *zap.Logger) *Builder {
	if batchSize <= 0 {
		batchSize = index.DefaultBatchSize
	}
	return &Builder{
		catalog:   catalog,
		content:   content,
		handle:    handle,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Rebuild collects documents from every producer, builds a fresh snapshot
// and publishes it. A single failing producer is skipped with a warning;
// when every producer fails the rebuild errors and nothing is published.
func (b *Builder) Rebuild(ctx context.Context) (err error) {
	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.IndexBuildsTotal.WithLabelValues(status).Inc()
		metrics.IndexBuildDuration.Observe(time.Since(start).Seconds())
	}()

	docs, failures := b.collect(ctx)
	if len(docs) == 0 && failures > 0 {
		return fmt.Errorf("%w: all producers failed", domain.ErrBuildFailed)
	}

	snap, err := index.BuildSnapshot(ctx, docs, b.batchSize)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBuildFailed, err)
	}

	// Publish cannot fail the swap; its error concerns only the replaced
	// snapshot's close and must not fail the rebuild.
	if err := b.handle.Publish(snap); err != nil {
		b.logger.Warn("closing replaced snapshot failed", zap.Error(err))
	}

	metrics.IndexDocuments.Set(float64(snap.DocCount()))
	b.logger.Info("index rebuilt",
		zap.Uint64("num_docs", snap.DocCount()),
		zap.Int("producer_failures", failures),
		zap.Duration("took", time.Since(start)))
	return nil
}

// collect gathers documents from every producer, counting failures instead
// of propagating them.
func (b *Builder) collect(ctx context.Context) ([]domain.Document, int) {
	producers := []struct {
		name  string
		fetch func(context.Context) ([]domain.Document, error)
	}{
		{"products", b.catalog.Products},
		{"collections", b.catalog.Collections},
		{"pages", b.content.Pages},
		{"articles", b.content.Articles},
	}

	var docs []domain.Document
	failures := 0
	for _, p := range producers {
		batch, err := p.fetch(logger.With(ctx, zap.String("producer", p.name)))
		if err != nil {
			failures++
			b.logger.Warn("producer failed, continuing without it",
				zap.String("producer", p.name), zap.Error(err))
			continue
		}

		for _, doc := range batch {
			if err := doc.Validate(); err != nil {
				b.logger.Warn("skipping invalid document",
					zap.String("producer", p.name),
					zap.String("handle", doc.Handle),
					zap.Error(err))
				continue
			}
			docs = append(docs, doc)
		}
	}

	return docs, failures
}

// Start launches the build loop in the background: an initial rebuild
// immediately, then, when interval is positive, periodic rebuilds until ctx
// is cancelled. Building never blocks the caller; the index serves empty
// results until the first snapshot publishes.
func (b *Builder) Start(ctx context.Context, interval time.Duration) {
	go func() {
		if err := b.Rebuild(ctx); err != nil {
			b.logger.Error("initial index build failed, serving empty until next rebuild", zap.Error(err))
		}

		if interval <= 0 {
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := b.Rebuild(ctx); err != nil {
					b.logger.Error("scheduled rebuild failed, keeping current snapshot", zap.Error(err))
				}
			}
		}
	}()
}
