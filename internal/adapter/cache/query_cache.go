package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"romdex/internal/domain"
	"romdex/internal/port"
)

// QueryCache holds search results per query. Entries expire after the ttl
// or when the index generation changes.
type QueryCache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	order    []string
	maxSize  int
	ttl      time.Duration
	indexGen uint64
}

type cacheEntry struct {
	results   []domain.Match
	timestamp time.Time
	indexGen  uint64
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(q domain.Query) string {
	var b strings.Builder
	b.WriteString(q.Title)
	b.WriteByte(0)
	b.WriteString(strings.Join(q.Include, "\x1f"))
	b.WriteByte(0)
	b.WriteString(strings.Join(q.Exclude, "\x1f"))
	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:16])
}

func (c *QueryCache) Get(q domain.Query) ([]domain.Match, bool) {
	c.mu.RLock()
	key := cacheKey(q)
	entry, exists := c.entries[key]
	currentGen := c.indexGen
	c.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Since(entry.timestamp) > c.ttl || entry.indexGen != currentGen {
		c.mu.Lock()
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.moveToEnd(key)
	c.mu.Unlock()

	return cloneMatches(entry.results), true
}

func (c *QueryCache) Put(q domain.Query, results []domain.Match) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(q)
	entry := &cacheEntry{
		results:   cloneMatches(results),
		timestamp: time.Now(),
		indexGen:  c.indexGen,
	}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

// Invalidate drops every entry and starts a new index generation.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.indexGen++
}

func (c *QueryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *QueryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *QueryCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *QueryCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func cloneMatches(m []domain.Match) []domain.Match {
	if m == nil {
		return nil
	}
	return append([]domain.Match(nil), m...)
}

// CachedSearcher memoizes a Searcher. Passing a different index than the
// previous call invalidates the cache.
type CachedSearcher struct {
	searcher port.Searcher
	cache    *QueryCache

	mu   sync.Mutex
	last *domain.Index
}

func NewCachedSearcher(searcher port.Searcher, cache *QueryCache) *CachedSearcher {
	return &CachedSearcher{
		searcher: searcher,
		cache:    cache,
	}
}

func (s *CachedSearcher) Search(idx *domain.Index, q domain.Query) []domain.Match {
	s.mu.Lock()
	if s.last != idx {
		s.cache.Invalidate()
		s.last = idx
	}
	s.mu.Unlock()

	if results, hit := s.cache.Get(q); hit {
		return results
	}

	results := s.searcher.Search(idx, q)
	s.cache.Put(q, results)

	return results
}
