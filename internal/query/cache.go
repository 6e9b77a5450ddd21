package query

import "sync"

// DefaultCacheSize is the bound spec.md §4.2.2 names for the optional
// query cache.
const DefaultCacheSize = 1000

type cacheKey struct {
	signature   string
	datasetSize int
	epoch       uint64
}

// Cache is a bounded FIFO cache of filter-match results, keyed by a
// filter's serialized shape, the dataset size it was computed over,
// and the collection's write epoch. Bumping the epoch on every write
// makes every previously cached entry address a key that can never be
// looked up again, the "lazily ignored" invalidation spec.md §9
// describes — eviction then just reclaims the space on its own
// schedule.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    []cacheKey
	entries  map[cacheKey][]int
}

// NewCache builds a Cache bounded at capacity entries. capacity <= 0
// uses DefaultCacheSize.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheSize
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[cacheKey][]int),
	}
}

// Get returns the cached position list for the given shape, if any.
func (c *Cache) Get(signature string, datasetSize int, epoch uint64) ([]int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	positions, ok := c.entries[cacheKey{signature, datasetSize, epoch}]
	return positions, ok
}

// Put stores a position list, evicting the oldest entry first if the
// cache is at capacity.
func (c *Cache) Put(signature string, datasetSize int, epoch uint64, positions []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey{signature, datasetSize, epoch}
	if _, exists := c.entries[key]; exists {
		return
	}
	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = positions
	c.order = append(c.order, key)
}
