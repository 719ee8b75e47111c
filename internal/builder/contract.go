// Package builder assembles index snapshots from the document producers and
// publishes them through the index handle.
package builder

import (
	"context"

	"github.com/nakedpineapple/storesearch/internal/domain"
)

// Catalog produces commerce documents.
type Catalog interface {
	Products(ctx context.Context) ([]domain.Document, error)
	Collections(ctx context.Context) ([]domain.Document, error)
}

// Content produces editorial documents.
type Content interface {
	Pages(ctx context.Context) ([]domain.Document, error)
	Articles(ctx context.Context) ([]domain.Document, error)
}
