// Package cache provides a concurrency-safe key/value store whose entries
// expire a fixed time after insertion and are evicted least-recently-used
// first once a capacity is reached.
//
// Storage, expiry, and eviction are delegated to
// [github.com/hashicorp/golang-lru/v2/expirable]. The wrapper adds a lock
// spanning each of its own operations, so that scans such as
// [Cache.InvalidateFunc] and [Cache.Entries] are atomic with respect to
// other calls on the same Cache.
//
// An entry that has expired or been evicted is indistinguishable from one
// that was never inserted.
//
// A Cache with a positive TTL owns a goroutine that sweeps expired entries
// for the life of the process. Processes holding many sessions should share
// one Cache between them.
package cache

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/ardnew/lispfront/log"
)

const (
	// DefaultCapacity is the maximum number of entries held by default.
	DefaultCapacity = 10000

	// DefaultTTL is the default lifetime of an entry.
	DefaultTTL = time.Hour
)

// Entry is a key/value pair held by a [Cache].
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Cache maps keys to values with bounded capacity and time-to-live.
type Cache[K comparable, V any] struct {
	mu     sync.RWMutex
	lru    *expirable.LRU[K, V]
	logger log.Logger
	size   int
	ttl    time.Duration
}

// Option configures a [Cache].
type Option func(*options)

type options struct {
	logger   log.Logger
	capacity int
	ttl      time.Duration
}

// WithCapacity sets the maximum number of entries. Zero means unbounded;
// negative values are ignored.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.capacity = n
		}
	}
}

// WithTTL sets how long an entry lives after it is inserted. Zero or
// negative disables expiry.
func WithTTL(d time.Duration) Option {
	return func(o *options) { o.ttl = d }
}

// WithLogger sets the logger used to trace evictions.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New returns an empty cache. With a positive TTL it starts the sweeping
// goroutine described in the package documentation.
func New[K comparable, V any](opts ...Option) *Cache[K, V] {
	o := options{capacity: DefaultCapacity, ttl: DefaultTTL}

	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[K, V]{
		logger: o.logger,
		size:   o.capacity,
		ttl:    o.ttl,
	}

	// A size of zero is unbounded and a non-positive TTL never expires.
	c.lru = expirable.NewLRU(o.capacity, c.evicted, o.ttl)

	return c
}

func (c *Cache[K, V]) evicted(key K, _ V) {
	c.logger.Trace("cache entry removed", slog.String("key", fmt.Sprint(key)))
}

// Capacity returns the configured maximum number of entries, or zero if
// unbounded.
func (c *Cache[K, V]) Capacity() int { return c.size }

// TTL returns the configured entry lifetime, or zero if entries never
// expire.
func (c *Cache[K, V]) TTL() time.Duration {
	if c.ttl <= 0 {
		return 0
	}

	return c.ttl
}

// Put inserts or replaces the value for key, restarting its lifetime.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, value)
}

// Get returns the value for key and marks it recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lru.Get(key)
}

// Contains reports whether key is present without affecting its recency.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.lru.Peek(key)

	return ok
}

// Invalidate removes key, reporting whether it was present.
func (c *Cache[K, V]) Invalidate(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Remove(key)
}

// InvalidateAll removes every entry.
func (c *Cache[K, V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Purge()
}

// InvalidateFunc removes every entry for which remove returns true and
// reports how many were removed. No other operation on c interleaves with
// the scan.
func (c *Cache[K, V]) InvalidateFunc(remove func(K, V) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int

	for _, key := range c.lru.Keys() {
		if value, ok := c.lru.Peek(key); ok && remove(key, value) {
			if c.lru.Remove(key) {
				n++
			}
		}
	}

	return n
}

// Entries returns a snapshot of the live entries ordered from least to most
// recently used. Put and Get both count as a use.
func (c *Cache[K, V]) Entries() []Entry[K, V] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := c.lru.Keys()
	entries := make([]Entry[K, V], 0, len(keys))

	for _, key := range keys {
		if value, ok := c.lru.Peek(key); ok {
			entries = append(entries, Entry[K, V]{Key: key, Value: value})
		}
	}

	return entries
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Expired entries stay listed until the next sweep.
	var n int

	for _, key := range c.lru.Keys() {
		if _, ok := c.lru.Peek(key); ok {
			n++
		}
	}

	return n
}
