// Package cache provides a byte-bounded LRU cache with per-entry TTL
// expiration and hit/miss instrumentation.
package cache

import (
	"encoding/json"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/courtside/scorehub/internal/metrics"
)

const (
	// entryOverhead is the fixed per-entry bookkeeping estimate added to
	// every size computation.
	entryOverhead = 64

	// fallbackSizeBytes is charged for values that cannot be serialized.
	fallbackSizeBytes = 1024
)

// Stats holds a snapshot of cache state and counters.
type Stats struct {
	SizeBytes    int64   `json:"size_bytes"`
	EntryCount   int     `json:"entry_count"`
	HitRate      float64 `json:"hit_rate"`
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	MaxSizeBytes int64   `json:"max_size_bytes"`
}

// entry is a single cached item tracked in both the key map and the LRU list.
type entry[V any] struct {
	key       string
	value     V
	storedAt  time.Time
	expiresAt time.Time
	sizeBytes int64
	prev      *entry[V]
	next      *entry[V]
}

// Cache is a thread-safe LRU cache bounded by total estimated byte size.
// Entries expire at read time once their TTL elapses; eviction runs
// synchronously inside Set so the byte ceiling holds after every mutation.
type Cache[V any] struct {
	mu         sync.Mutex
	maxBytes   int64
	defaultTTL time.Duration
	items      map[string]*entry[V]
	head       *entry[V]
	tail       *entry[V]
	sizeBytes  int64
	hits       int64
	misses     int64
	now        func() time.Time
}

// New creates a cache with the given byte ceiling and default TTL.
func New[V any](maxBytes int64, defaultTTL time.Duration) *Cache[V] {
	return &Cache[V]{
		maxBytes:   maxBytes,
		defaultTTL: defaultTTL,
		items:      make(map[string]*entry[V]),
		now:        time.Now,
	}
}

// Get returns the value for key if present and not expired.
// It counts a hit or miss and refreshes the entry's LRU recency.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		c.misses++
		metrics.RecordCacheOperation("get", "miss")
		return zero, false
	}

	if !c.now().Before(e.expiresAt) {
		c.removeEntry(e)
		c.misses++
		metrics.RecordCacheOperation("get", "expired")
		return zero, false
	}

	c.hits++
	c.moveToFront(e)
	metrics.RecordCacheOperation("get", "hit")
	return e.value, true
}

// Has reports whether a live entry exists for key without touching
// the hit/miss counters or LRU recency. Intended for diagnostics.
func (c *Cache[V]) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	return ok && c.now().Before(e.expiresAt)
}

// Set stores value under key using the cache's default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL. The entry's size
// is estimated at insertion; least-recently-used entries are evicted until
// the byte ceiling is respected, which in the degenerate case of a single
// entry larger than the ceiling evicts the entry just inserted.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	size := estimateSize(key, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.items[key]; ok {
		c.sizeBytes += size - e.sizeBytes
		e.value = value
		e.storedAt = now
		e.expiresAt = now.Add(ttl)
		e.sizeBytes = size
		c.moveToFront(e)
	} else {
		e := &entry[V]{
			key:       key,
			value:     value,
			storedAt:  now,
			expiresAt: now.Add(ttl),
			sizeBytes: size,
		}
		c.items[key] = e
		c.addToFront(e)
		c.sizeBytes += size
	}

	for c.sizeBytes > c.maxBytes && c.tail != nil {
		c.removeEntry(c.tail)
		metrics.RecordCacheOperation("evict", "capacity")
	}
	metrics.RecordCacheOperation("set", "success")
}

// Delete removes key from the cache, reporting whether an entry existed.
func (c *Cache[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeEntry(e)
	return true
}

// Clear removes all entries. Hit/miss counters are untouched.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*entry[V])
	c.head = nil
	c.tail = nil
	c.sizeBytes = 0
	metrics.RecordCacheOperation("clear", "success")
}

// Keys returns a snapshot of live keys in most-recently-used order.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.items))
	for e := c.head; e != nil; e = e.next {
		keys = append(keys, e.key)
	}
	return keys
}

// Stats returns a snapshot of cache state and counters. HitRate is zero
// until at least one Get has occurred.
func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}
	return Stats{
		SizeBytes:    c.sizeBytes,
		EntryCount:   len(c.items),
		HitRate:      hitRate,
		Hits:         c.hits,
		Misses:       c.misses,
		MaxSizeBytes: c.maxBytes,
	}
}

// ResetMetrics zeroes the hit/miss counters. Stored entries are untouched.
func (c *Cache[V]) ResetMetrics() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hits = 0
	c.misses = 0
}

// estimateSize approximates the memory footprint of an entry: two bytes per
// UTF-16 code unit of the key plus twice the serialized value length plus a
// fixed overhead. Unserializable values are charged a fixed fallback so the
// insert never fails. An approximation, but cheap and conservative enough to
// bound growth over long-running sessions.
func estimateSize[V any](key string, value V) int64 {
	size := int64(2*len(utf16.Encode([]rune(key)))) + entryOverhead

	data, err := json.Marshal(value)
	if err != nil {
		return size + fallbackSizeBytes
	}
	return size + int64(2*len(data))
}

// removeEntry removes an entry from both the map and the linked list.
func (c *Cache[V]) removeEntry(e *entry[V]) {
	delete(c.items, e.key)
	c.sizeBytes -= e.sizeBytes
	c.unlink(e)
}

// moveToFront moves an existing entry to the front of the LRU list.
func (c *Cache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

// addToFront adds an entry to the front of the LRU list.
func (c *Cache[V]) addToFront(e *entry[V]) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

// unlink removes an entry from the linked list without touching the map.
func (c *Cache[V]) unlink(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}
