package recur

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// cacheEntry is a cached occurrence expansion.
type cacheEntry struct {
	occurrences []time.Time
	expiresAt   time.Time
	accessedAt  time.Time
}

// OccurrenceCache caches occurrence expansions keyed by settings content,
// count and starting instant.
type OccurrenceCache struct {
	entries         map[string]*cacheEntry
	mutex           sync.RWMutex
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	hits            int64
	misses          int64
}

// CacheConfig holds configuration for the occurrence cache.
type CacheConfig struct {
	TTL             time.Duration // How long entries stay valid
	MaxEntries      int           // Maximum number of entries before cleanup
	CleanupInterval time.Duration // How often to run cleanup
}

// DefaultCacheConfig provides sensible defaults for occurrence caching.
var DefaultCacheConfig = CacheConfig{
	TTL:             15 * time.Minute,
	MaxEntries:      1000,
	CleanupInterval: 5 * time.Minute,
}

// CacheStats describes cache usage at a point in time.
type CacheStats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// NewOccurrenceCache creates a cache and starts its cleanup goroutine.
func NewOccurrenceCache(config CacheConfig) *OccurrenceCache {
	cache := &OccurrenceCache{
		entries:         make(map[string]*cacheEntry),
		ttl:             config.TTL,
		maxEntries:      config.MaxEntries,
		cleanupInterval: config.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	go cache.cleanupLoop()

	return cache
}

// cacheKey hashes the settings content together with the expansion
// parameters. Settings marshal deterministically, so equal configurations
// share entries.
func cacheKey(s Settings, n int, from time.Time) string {
	hasher := sha256.New()

	if encoded, err := json.Marshal(s); err == nil {
		hasher.Write(encoded)
	}
	fmt.Fprintf(hasher, "|%d|%s", n, from.Format(time.RFC3339Nano))

	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// Get retrieves a cached expansion if it exists and hasn't expired.
func (c *OccurrenceCache) Get(s Settings, n int, from time.Time) ([]time.Time, bool) {
	key := cacheKey(s, n, from)

	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists {
		c.mutex.Lock()
		c.misses++
		c.mutex.Unlock()
		return nil, false
	}

	now := time.Now()
	if now.After(entry.expiresAt) {
		c.mutex.Lock()
		delete(c.entries, key)
		c.misses++
		c.mutex.Unlock()
		return nil, false
	}

	c.mutex.Lock()
	entry.accessedAt = now
	c.hits++
	c.mutex.Unlock()

	// Copy so callers can't mutate the cached slice.
	out := make([]time.Time, len(entry.occurrences))
	copy(out, entry.occurrences)
	return out, true
}

// Set stores an expansion in the cache.
func (c *OccurrenceCache) Set(s Settings, n int, from time.Time, occurrences []time.Time) {
	key := cacheKey(s, n, from)
	now := time.Now()

	stored := make([]time.Time, len(occurrences))
	copy(stored, occurrences)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = &cacheEntry{
		occurrences: stored,
		expiresAt:   now.Add(c.ttl),
		accessedAt:  now,
	}

	if len(c.entries) > c.maxEntries {
		c.cleanup()
	}
}

// cleanup removes expired entries, then the least recently accessed entries
// if the cache is still over its limit. Callers must hold the write lock.
func (c *OccurrenceCache) cleanup() {
	now := time.Now()

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}

	for len(c.entries) > c.maxEntries {
		oldestKey := ""
		var oldestAccess time.Time
		for key, entry := range c.entries {
			if oldestKey == "" || entry.accessedAt.Before(oldestAccess) {
				oldestKey = key
				oldestAccess = entry.accessedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

func (c *OccurrenceCache) cleanupLoop() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mutex.Lock()
			c.cleanup()
			c.mutex.Unlock()
		case <-c.stopCleanup:
			return
		}
	}
}

// Close stops the cleanup goroutine and clears the cache.
func (c *OccurrenceCache) Close() {
	close(c.stopCleanup)
	c.mutex.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mutex.Unlock()
}

// Stats returns cache statistics.
func (c *OccurrenceCache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return CacheStats{
		Entries: len(c.entries),
		Hits:    c.hits,
		Misses:  c.misses,
	}
}
