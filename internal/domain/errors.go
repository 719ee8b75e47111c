package domain

import "errors"

var (
	// ErrInvalidDocType signals a stored document whose doc_type does not
	// parse into a known variant. This is data corruption, not absence.
	ErrInvalidDocType = errors.New("invalid doc type")
	// ErrInvalidDocument signals an ingestion document that fails validation.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrBuildFailed signals that an index build produced nothing to publish.
	ErrBuildFailed = errors.New("index build failed")
)
