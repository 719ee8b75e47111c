// Package index implements the embedded full-text search engine: the bleve
// schema shared by builder and searcher, immutable index snapshots, the
// lock-guarded handle that lets a freshly built snapshot be adopted atomically
// without blocking readers, the query builders, and the two public search
// operations.
//
// The process starts with an empty handle. A background builder constructs a
// snapshot from producer data and publishes it; until then every search
// returns empty results rather than an error.
package index
