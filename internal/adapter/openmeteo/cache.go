package openmeteo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/calyptra/agrocast/internal/domain"
	"github.com/calyptra/agrocast/internal/observability"
)

// CachedProvider wraps a WeatherProvider with an in-memory TTL cache. The
// upstream refreshes its model runs hourly, so repeated lookups for the same
// location within the TTL serve the cached bundle.
type CachedProvider struct {
	inner   domain.WeatherProvider
	cache   *ttlCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a weather provider.
func NewCachedProvider(inner domain.WeatherProvider, maxEntries int, ttl time.Duration, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newTTLCache(maxEntries, ttl),
		metrics: metrics,
	}
}

func (c *CachedProvider) FetchForecast(ctx context.Context, lat, lon float64, days int) (domain.ForecastBundle, error) {
	// Coordinates are rounded to ~100m so jittery client GPS fixes share an
	// entry.
	key := fmt.Sprintf("%.3f,%.3f,%d", lat, lon, days)
	if bundle, ok := c.cache.get(key); ok {
		c.metrics.WeatherCache.WithLabelValues("hit").Inc()
		return bundle, nil
	}
	c.metrics.WeatherCache.WithLabelValues("miss").Inc()

	bundle, err := c.inner.FetchForecast(ctx, lat, lon, days)
	if err != nil {
		return bundle, err
	}
	// Only cache bundles with daily data so an empty upstream response can
	// be retried.
	if len(bundle.Daily) > 0 {
		c.cache.put(key, bundle)
	}
	return bundle, nil
}

// ttlCache is a thread-safe cache of forecast bundles with per-entry expiry
// and LRU eviction when full.
type ttlCache struct {
	maxEntries int
	ttl        time.Duration
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     domain.ForecastBundle
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newTTLCache(maxEntries int, ttl time.Duration) *ttlCache {
	return &ttlCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*entry),
	}
}

func (c *ttlCache) get(key string) (domain.ForecastBundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.ForecastBundle{}, false
	}
	if time.Now().After(e.expiresAt) {
		c.remove(e)
		delete(c.entries, key)
		return domain.ForecastBundle{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *ttlCache) put(key string, value domain.ForecastBundle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *ttlCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *ttlCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *ttlCache) remove(e *entry) {
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

func (c *ttlCache) evictTail() {
	if c.tail == nil {
		return
	}
	evicted := c.tail
	c.remove(evicted)
	delete(c.entries, evicted.key)
}
