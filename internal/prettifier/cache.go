package prettifier

import (
	"container/list"
	"fmt"
)

// cacheKey is the compound (content_hash, terminal_width) key the spec
// requires — different widths of the same content are separate entries.
type cacheKey struct {
	hash  uint64
	width int
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%d:%d", k.hash, k.width)
}

type cacheEntry struct {
	key      cacheKey
	rendered *RenderedContent
	formatID string
}

// CacheStats reports cache diagnostics.
type CacheStats struct {
	EntryCount int
	MaxEntries int
	HitCount   int
	MissCount  int
}

// RenderCache is an LRU map keyed by (content_hash, terminal_width) to
// RenderedContent, following the same container/list idiom as the
// teacher's chat.BlockCache.
type RenderCache struct {
	maxEntries int
	index      map[cacheKey]*list.Element
	lru        *list.List
	hitCount   int
	missCount  int
}

// NewRenderCache creates a cache with the given capacity (default ~64 if
// non-positive).
func NewRenderCache(maxEntries int) *RenderCache {
	if maxEntries <= 0 {
		maxEntries = 64
	}
	return &RenderCache{
		maxEntries: maxEntries,
		index:      make(map[cacheKey]*list.Element),
		lru:        list.New(),
	}
}

// Get looks up a rendered result, marking it most-recently-used on a hit.
func (c *RenderCache) Get(hash uint64, width int) (*RenderedContent, bool) {
	key := cacheKey{hash: hash, width: width}
	if elem, ok := c.index[key]; ok {
		c.lru.MoveToFront(elem)
		c.hitCount++
		return elem.Value.(*cacheEntry).rendered, true
	}
	c.missCount++
	return nil, false
}

// Put inserts or replaces an entry, evicting the least-recently-used one
// if the cache is at capacity.
func (c *RenderCache) Put(hash uint64, width int, formatID string, rendered *RenderedContent) {
	key := cacheKey{hash: hash, width: width}
	if elem, ok := c.index[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*cacheEntry).rendered = rendered
		elem.Value.(*cacheEntry).formatID = formatID
		return
	}

	if c.lru.Len() >= c.maxEntries {
		c.evictOldest()
	}

	entry := &cacheEntry{key: key, rendered: rendered, formatID: formatID}
	elem := c.lru.PushFront(entry)
	c.index[key] = elem
}

func (c *RenderCache) evictOldest() {
	oldest := c.lru.Back()
	if oldest == nil {
		return
	}
	entry := oldest.Value.(*cacheEntry)
	delete(c.index, entry.key)
	c.lru.Remove(oldest)
}

// Invalidate drops every width variant cached for a content hash.
func (c *RenderCache) Invalidate(hash uint64) {
	for key, elem := range c.index {
		if key.hash == hash {
			delete(c.index, key)
			c.lru.Remove(elem)
		}
	}
}

// Clear empties the cache and resets hit/miss counters.
func (c *RenderCache) Clear() {
	c.index = make(map[cacheKey]*list.Element)
	c.lru.Init()
	c.hitCount = 0
	c.missCount = 0
}

// Stats reports current cache diagnostics.
func (c *RenderCache) Stats() CacheStats {
	return CacheStats{
		EntryCount: len(c.index),
		MaxEntries: c.maxEntries,
		HitCount:   c.hitCount,
		MissCount:  c.missCount,
	}
}
