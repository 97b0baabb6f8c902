package reconcile

import "context"

// Source pages through one category of the upstream catalog.
type Source interface {
	// FetchPage returns page pageNo (1-based) with at most pageSize items.
	// A page shorter than pageSize, or an empty page, ends the listing.
	FetchPage(ctx context.Context, pageNo, pageSize int) (Page, error)
}

// Store reads and writes the local record set of one category.
type Store interface {
	// LoadIndex returns every local record keyed by source id.
	LoadIndex(ctx context.Context) (map[string]LocalItem, error)

	// Upsert inserts the source record, or rewrites only its structural fields
	// when a record with the same key exists. Enrichment fields must survive.
	Upsert(ctx context.Context, item SourceItem) error

	// DeleteKeys removes the records with the given keys and returns the number
	// of rows actually removed. Missing keys are not an error.
	DeleteKeys(ctx context.Context, keys []string) (int, error)
}

// Adapter defines the category-specific key and comparison logic.
type Adapter interface {
	// SourceKey returns the source id of an upstream record.
	// An empty key marks the record as unusable; it is skipped.
	SourceKey(item SourceItem) string

	// LocalKey returns the source id of a local record.
	LocalKey(item LocalItem) string

	// Label returns a display name for a local record.
	Label(item LocalItem) string

	// CompareFields compares the structural fields of both records and returns
	// one description per mismatch (e.g. "title: src=A local=B").
	CompareFields(src SourceItem, local LocalItem) []string

	// HasEnrichment reports whether the local record carries locally-entered data.
	HasEnrichment(item LocalItem) bool
}
