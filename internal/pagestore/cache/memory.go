package cache

import (
	"sort"
	"sync"

	"github.com/rohmanhakim/consents/internal/consent"
)

// MemoryCache is an in-memory implementation of the PageCache interface.
// It uses a map for storage and provides thread-safe operations via RWMutex.
//
// Records are copied on the way in and on the way out, so callers can never
// mutate a cached page. The cache lives for the duration of the session.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[int][]consent.Record
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[int][]consent.Record),
	}
}

func (c *MemoryCache) Get(page int) ([]consent.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	records, exists := c.data[page]
	if !exists {
		return nil, false
	}
	return consent.CloneAll(records), true
}

func (c *MemoryCache) Put(page int, records []consent.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[page] = consent.CloneAll(records)
}

func (c *MemoryCache) PutIfAbsent(page int, records []consent.Record) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.data[page]; exists {
		return false
	}
	c.data[page] = consent.CloneAll(records)
	return true
}

func (c *MemoryCache) Pages() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pages := make([]int, 0, len(c.data))
	for p := range c.data {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

// Size returns the number of cached pages.
func (c *MemoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}
