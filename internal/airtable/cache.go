package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-recipes-backend/internal/events"
)

const (
	// DefaultMaxEntries bounds the number of distinct cached queries.
	DefaultMaxEntries = 50
	// DefaultTTL is how long a cached result stays live. Expiry is checked
	// lazily at lookup time; stale entries are overwritten, not reaped.
	DefaultTTL = 30 * time.Minute
)

// cacheEntry is one memoized query result snapshot.
type cacheEntry struct {
	result    *Result
	createdAt time.Time
}

func (e *cacheEntry) outdated(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.createdAt) > ttl
}

// QueryCache memoizes query results keyed by fingerprint so identical reads
// within the TTL window skip the remote call.
//
// The cache owns its entry map outright; capacity and TTL invariants cannot
// be bypassed from outside. Unlike the single-threaded runtimes this
// pattern is common in, Go handlers run concurrently, so the map is
// mutex-guarded. The lock is never held across a remote call: two
// concurrent misses on the same fingerprint may both execute the query and
// the later completion wins, which is harmless for read snapshots.
type QueryCache struct {
	mu         sync.Mutex
	entries    map[uint64]*cacheEntry
	maxEntries int
	ttl        time.Duration

	now func() time.Time // test seam
}

// NewQueryCache builds a cache with the given capacity and TTL (zero values
// fall back to the defaults) and subscribes it to the clear-cache topic of
// bus. The bus is an explicit dependency so tests can run each cache
// against an isolated bus instance.
func NewQueryCache(maxEntries int, ttl time.Duration, bus *events.Bus) *QueryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &QueryCache{
		entries:    make(map[uint64]*cacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
		now:        time.Now,
	}
	if bus != nil {
		bus.Subscribe(events.TopicClearCache, c.Clear)
	}
	return c
}

// Execute returns the cached result for q when a live entry exists,
// otherwise runs the query. Successful non-empty results are stored before
// returning; empty results are never cached so a listing that is empty now
// can become visible as soon as matching records appear. Query errors
// propagate uncached and untouched.
func (c *QueryCache) Execute(ctx context.Context, q CacheableQuery) (*Result, error) {
	key := fingerprint(q.Descriptor())

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.outdated(c.now(), c.ttl) {
		c.mu.Unlock()
		log.Debug().Uint64("query", key).Msg("cache hit")
		return e.result, nil
	}
	c.mu.Unlock()

	res, err := q.Do(ctx)
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Records) == 0 {
		return res, nil
	}
	log.Debug().Uint64("query", key).Msg("cache miss")

	c.mu.Lock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}
	c.entries[key] = &cacheEntry{result: res, createdAt: c.now()}
	c.mu.Unlock()

	return res, nil
}

// Clear discards every entry unconditionally. It is wired to the
// clear-cache event and is the only way entries disappear before their TTL,
// capacity eviction aside.
func (c *QueryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[uint64]*cacheEntry)
	c.mu.Unlock()
	log.Info().Msg("query cache cleared")
}

// Len reports the number of cached entries, live or stale.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictOldestLocked removes the single entry with the oldest creation
// timestamp. Eviction is by age of insertion, not by last access.
func (c *QueryCache) evictOldestLocked() {
	var (
		oldestKey uint64
		oldestAt  time.Time
		found     bool
	)
	for k, e := range c.entries {
		if !found || e.createdAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, e.createdAt, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}

// fingerprint derives the stable identity of a query from its descriptor.
// json.Marshal sorts map keys, so the serialization is canonical: identical
// queries hash identically and any parameter difference, page number
// included, yields a different key.
func fingerprint(d Descriptor) uint64 {
	payload, err := json.Marshal(struct {
		Table  string         `json:"table"`
		Method string         `json:"method"`
		Params map[string]any `json:"params"`
	}{d.Table, d.Method, d.Params})
	if err != nil {
		// Descriptors are built from plain strings, slices, and numbers;
		// marshalling them cannot fail in practice.
		panic(fmt.Sprintf("airtable: fingerprint descriptor: %v", err))
	}
	return xxhash.Sum64(payload)
}
