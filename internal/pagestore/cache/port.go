package cache

import "github.com/rohmanhakim/consents/internal/consent"

// PageCache defines the port interface for page caching.
// Keys are 1-based page numbers. A key is present only for a page that has
// been successfully fetched; entries are never evicted.
type PageCache interface {
	// Get returns a copy of the cached page and true, or nil and false.
	Get(page int) ([]consent.Record, bool)

	// Put stores a page, overwriting any previous entry.
	Put(page int, records []consent.Record)

	// PutIfAbsent stores a page only when no entry exists and reports
	// whether it did.
	PutIfAbsent(page int, records []consent.Record) bool

	// Pages returns the cached page numbers in ascending order.
	Pages() []int
}
