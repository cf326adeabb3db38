package index

import (
	"sync"

	"github.com/bastiangx/catalogserve/pkg/catalog"
	"github.com/bastiangx/catalogserve/pkg/metrics"
	"github.com/charmbracelet/log"
)

// Cache memoizes the index of the most recent catalog. The catalog pointer
// is the cache key; a different pointer triggers a rebuild.
type Cache struct {
	catalog *catalog.Catalog
	index   *Index
	builds  int
	mu      sync.RWMutex
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Get returns the index for c, building it on first use or when c is not
// the catalog seen last time.
func (ca *Cache) Get(c *catalog.Catalog) *Index {
	ca.mu.RLock()
	if ca.index != nil && ca.catalog == c {
		ix := ca.index
		ca.mu.RUnlock()
		return ix
	}
	ca.mu.RUnlock()

	ca.mu.Lock()
	defer ca.mu.Unlock()

	if ca.index != nil && ca.catalog == c {
		return ca.index
	}

	ca.index = Build(c)
	ca.catalog = c
	ca.builds++
	metrics.IndexBuildsTotal.Inc()
	log.Debugf("Keyword index rebuilt (build #%d)", ca.builds)

	return ca.index
}

// Builds returns how many times the cache has rebuilt.
func (ca *Cache) Builds() int {
	ca.mu.RLock()
	defer ca.mu.RUnlock()
	return ca.builds
}
