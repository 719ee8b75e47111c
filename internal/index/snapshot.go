package index

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"

	"github.com/nakedpineapple/storesearch/internal/domain"
)

// DefaultBatchSize is the number of documents committed per bleve batch
// during a snapshot build.
const DefaultBatchSize = 500

// Snapshot is one fully built, immutable in-memory index. Exactly one
// snapshot is current at any instant; a published snapshot is never
// mutated, only replaced wholesale.
type Snapshot struct {
	index    bleve.Index
	docCount uint64
}

// BuildSnapshot constructs a new in-memory index from the given documents.
// It runs entirely off the handle's lock; publish the result afterwards.
// batchSize <= 0 uses DefaultBatchSize.
func BuildSnapshot(ctx context.Context, docs []domain.Document, batchSize int) (*Snapshot, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	batch := idx.NewBatch()
	for _, d := range docs {
		select {
		case <-ctx.Done():
			_ = idx.Close()
			return nil, fmt.Errorf("build snapshot: %w", ctx.Err())
		default:
		}

		if err := batch.Index(d.ID(), newIndexDoc(d)); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index document %s: %w", d.ID(), err)
		}

		if batch.Size() >= batchSize {
			if err := idx.Batch(batch); err != nil {
				_ = idx.Close()
				return nil, fmt.Errorf("commit batch: %w", err)
			}
			batch = idx.NewBatch()
		}
	}

	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("commit final batch: %w", err)
		}
	}

	count, err := idx.DocCount()
	if err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("count documents: %w", err)
	}

	return &Snapshot{index: idx, docCount: count}, nil
}

// DocCount returns the number of documents in the snapshot.
func (s *Snapshot) DocCount() uint64 { return s.docCount }

// Close releases the snapshot's index resources. Called by the handle
// after the snapshot has been replaced.
func (s *Snapshot) Close() error {
	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	return nil
}
