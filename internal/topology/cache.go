package topology

import "sync"

// Cache is a concurrency-safe topology store keyed by content hash. The
// first topology stored for a hash becomes canonical; later stores of the
// same hash return the existing entry so unrelated graph instances that
// were authored identically share one topology.
type Cache struct {
	mu      sync.RWMutex
	entries map[uint64]*Topology
}

// NewCache creates an empty topology cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[uint64]*Topology)}
}

// Store publishes a finished topology and returns the canonical entry for
// its content hash.
func (c *Cache) Store(t *Topology) *Topology {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[t.ContentHash]; ok {
		return existing
	}
	c.entries[t.ContentHash] = t
	return t
}

// Load returns the canonical topology for a content hash.
func (c *Cache) Load(hash uint64) (*Topology, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.entries[hash]
	return t, ok
}

// Len returns the number of distinct topologies stored.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
