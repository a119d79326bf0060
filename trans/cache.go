package trans

import (
	"sort"
	"sync"
)

// Entry is one memoized translation.
type Entry struct {
	Text string
	Aux  []string
}

// Cache memoizes the last-produced translation per (formula, dialect). It
// is strictly partitioned: a put under one dialect is never visible under
// another, and clearing a dialect leaves the others untouched. Entries are
// repopulated once per generation run for a dialect.
type Cache struct {
	mu      sync.RWMutex
	entries map[Dialect]map[string]Entry
}

// NewCache returns an empty translation cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Dialect]map[string]Entry)}
}

// Get returns the memoized entry for (formulaID, dialect), if any.
func (c *Cache) Get(formulaID string, dialect Dialect) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[dialect][formulaID]
	return e, ok
}

// Put installs the translation for (formulaID, dialect).
func (c *Cache) Put(formulaID string, dialect Dialect, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	part, ok := c.entries[dialect]
	if !ok {
		part = make(map[string]Entry)
		c.entries[dialect] = part
	}
	part[formulaID] = e
}

// Clear drops every entry for the given dialect only.
func (c *Cache) Clear(dialect Dialect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, dialect)
}

// Len returns the entry count for a dialect.
func (c *Cache) Len(dialect Dialect) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries[dialect])
}

// CacheSnapshot is a deterministic export of the cache for persistence.
type CacheSnapshot struct {
	Dialects map[Dialect]map[string]Entry
}

// Export deep-copies the cache state, keys sorted by construction of the
// nested maps being rebuilt fresh.
func (c *Cache) Export() *CacheSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := &CacheSnapshot{Dialects: make(map[Dialect]map[string]Entry, len(c.entries))}
	for d, part := range c.entries {
		cp := make(map[string]Entry, len(part))
		for id, e := range part {
			aux := make([]string, len(e.Aux))
			copy(aux, e.Aux)
			cp[id] = Entry{Text: e.Text, Aux: aux}
		}
		s.Dialects[d] = cp
	}
	return s
}

// FromSnapshot rebuilds a cache from an export. A nil snapshot yields an
// empty cache.
func FromSnapshot(s *CacheSnapshot) *Cache {
	c := NewCache()
	if s == nil {
		return c
	}
	for d, part := range s.Dialects {
		for id, e := range part {
			c.Put(id, d, e)
		}
	}
	return c
}

// FormulaIDs returns the sorted formula identities cached for a dialect.
func (c *Cache) FormulaIDs(dialect Dialect) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.entries[dialect]))
	for id := range c.entries[dialect] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
